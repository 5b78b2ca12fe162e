package news

import "slices"

// ExtractSources lists the distinct publication names of a batch in
// lexicographic order. Articles without a source are skipped.
func ExtractSources(articles []Article) []string {
	seen := make(map[string]bool)
	sources := make([]string, 0)

	for _, a := range articles {
		if a.SourceName == "" || seen[a.SourceName] {
			continue
		}
		seen[a.SourceName] = true
		sources = append(sources, a.SourceName)
	}

	slices.Sort(sources)
	return sources
}

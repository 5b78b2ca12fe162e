package news

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
)

// Apply derives the filtered view: search, source filter, date window, then
// sort. The input slice is never modified and the result depends only on the
// arguments.
func Apply(articles []Article, c Criteria, now time.Time) []Article {
	// A Caser carries state and must not be shared between goroutines.
	folder := cases.Fold()

	view := make([]Article, 0, len(articles))
	needle := folder.String(c.SearchText)

	for _, a := range articles {
		if needle != "" && !matchesSearch(folder, a, needle) {
			continue
		}
		if len(c.SelectedSources) > 0 && !slices.Contains(c.SelectedSources, a.SourceName) {
			continue
		}
		if !withinWindow(a, c.DateWindow, now) {
			continue
		}
		view = append(view, a)
	}

	switch c.SortOrder {
	case SortNewest:
		slices.SortStableFunc(view, func(a, b Article) int {
			return b.PublishedAt.Compare(a.PublishedAt)
		})
	case SortOldest:
		slices.SortStableFunc(view, func(a, b Article) int {
			return a.PublishedAt.Compare(b.PublishedAt)
		})
	case SortRelevance:
		if needle != "" {
			view = partitionByTitle(folder, view, needle)
		}
	}

	return view
}

func matchesSearch(folder cases.Caser, a Article, needle string) bool {
	for _, field := range [...]string{a.Title, a.Description, a.Content} {
		if strings.Contains(folder.String(field), needle) {
			return true
		}
	}
	return false
}

func withinWindow(a Article, window DateWindow, now time.Time) bool {
	switch window {
	case DateWindowToday:
		if !a.HasPublishedAt() {
			return false
		}
		y1, m1, d1 := a.PublishedAt.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case DateWindowWeek:
		return a.HasPublishedAt() && !a.PublishedAt.Before(now.Add(-weekWindow))
	case DateWindowMonth:
		return a.HasPublishedAt() && !a.PublishedAt.Before(now.Add(-monthWindow))
	default:
		return true
	}
}

// partitionByTitle moves title matches ahead of the rest, keeping relative
// order inside both groups.
func partitionByTitle(folder cases.Caser, view []Article, needle string) []Article {
	out := make([]Article, 0, len(view))
	rest := make([]Article, 0, len(view))

	for _, a := range view {
		if strings.Contains(folder.String(a.Title), needle) {
			out = append(out, a)
		} else {
			rest = append(rest, a)
		}
	}

	return append(out, rest...)
}

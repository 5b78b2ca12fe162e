package newsapi

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is the fixed query sent to the provider. It is resolved once at
// startup and never changes while the process runs.
type Profile struct {
	Keywords []string `yaml:"keywords"`
	Domains  []string `yaml:"domains"`
	Language string   `yaml:"language"`
	SortBy   string   `yaml:"sort_by"`
	PageSize int      `yaml:"page_size"`
}

const maxPageSize = 100

func DefaultProfile() *Profile {
	return &Profile{
		Keywords: []string{
			"pharmaceutical",
			"pharma",
			"FDA approval",
			"drug approval",
			"clinical trial",
			"biotech",
			"biotechnology",
			"drug development",
			"medical device",
			"drug discovery",
			"vaccine",
			"life sciences",
		},
		Domains: []string{
			"fiercepharma.com",
			"biopharmadive.com",
			"statnews.com",
			"endpts.com",
			"pharmabiz.com",
			"pharmatimes.com",
			"pharmaceutical-technology.com",
			"pharmavoice.com",
			"thepharmaletter.com",
		},
		Language: "en",
		SortBy:   "publishedAt",
		PageSize: maxPageSize,
	}
}

// LoadProfile reads a YAML profile. An empty path yields the default profile;
// fields missing from the file keep their defaults.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()
	if path == "" {
		return profile, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var raw Profile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(raw.Keywords) > 0 {
		profile.Keywords = raw.Keywords
	}
	if len(raw.Domains) > 0 {
		profile.Domains = raw.Domains
	}
	if raw.Language != "" {
		profile.Language = raw.Language
	}
	if raw.SortBy != "" {
		profile.SortBy = raw.SortBy
	}
	if raw.PageSize != 0 {
		profile.PageSize = raw.PageSize
	}

	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	slog.Debug("Query profile loaded", "path", path, "keywords", len(profile.Keywords), "domains", len(profile.Domains))

	return profile, nil
}

func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	requiredLists := map[string][]string{
		"keywords": p.Keywords,
		"domains":  p.Domains,
	}
	for name, values := range requiredLists {
		if len(values) == 0 {
			return fmt.Errorf("%s are required", name)
		}
		for i, v := range values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("empty entry in %s at index %d", name, i)
			}
		}
	}

	if p.PageSize < 1 || p.PageSize > maxPageSize {
		return fmt.Errorf("page size must be between 1 and %d", maxPageSize)
	}

	return nil
}

// KeywordExpression OR-joins the keywords, quoting multi-word phrases.
func (p *Profile) KeywordExpression() string {
	terms := make([]string, 0, len(p.Keywords))
	for _, k := range p.Keywords {
		k = strings.TrimSpace(k)
		if strings.ContainsAny(k, " \t") {
			k = strconv.Quote(k)
		}
		terms = append(terms, k)
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// Values builds the query string without the credential.
func (p *Profile) Values() url.Values {
	v := url.Values{}
	v.Set("q", p.KeywordExpression())
	v.Set("domains", strings.Join(p.Domains, ","))
	v.Set("language", p.Language)
	v.Set("sortBy", p.SortBy)
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	return v
}

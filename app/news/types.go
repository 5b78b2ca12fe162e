package news

import (
	"fmt"
	"slices"
	"time"
)

// Article is one admitted item of a fetched batch. It is never mutated after
// admission.
type Article struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	URL            string    `json:"url"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	SourceName     string    `json:"sourceName,omitempty"`
	Author         string    `json:"author,omitempty"`
	PublishedAt    time.Time `json:"publishedAt"`
	PublishedAtRaw string    `json:"publishedAtRaw"`
	Trending       bool      `json:"trending"`
}

// HasPublishedAt reports whether the provider timestamp could be parsed.
func (a Article) HasPublishedAt() bool {
	return !a.PublishedAt.IsZero()
}

type SavedArticle struct {
	Article
	SavedAt time.Time `json:"savedAt"`
}

type Status string

const (
	StatusChecking  Status = "checking"
	StatusConnected Status = "connected"
	StatusError     Status = "error"
)

type FeedState struct {
	Articles     []Article  `json:"articles"`
	Status       Status     `json:"status"`
	LastUpdated  *time.Time `json:"lastUpdated,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`

	// Err keeps the typed cause behind ErrorMessage.
	Err error `json:"-"`

	batch uint64
}

func (s FeedState) clone() FeedState {
	out := s
	out.Articles = slices.Clone(s.Articles)
	if s.LastUpdated != nil {
		t := *s.LastUpdated
		out.LastUpdated = &t
	}
	return out
}

type DateWindow string

const (
	DateWindowAll   DateWindow = "all"
	DateWindowToday DateWindow = "today"
	DateWindowWeek  DateWindow = "week"
	DateWindowMonth DateWindow = "month"
)

func ParseDateWindow(s string) (DateWindow, error) {
	switch w := DateWindow(s); w {
	case DateWindowAll, DateWindowToday, DateWindowWeek, DateWindowMonth:
		return w, nil
	}
	return "", fmt.Errorf("%w: date window %q", ErrInvalidCriteria, s)
}

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortRelevance SortOrder = "relevance"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case SortNewest, SortOldest, SortRelevance:
		return o, nil
	}
	return "", fmt.Errorf("%w: sort order %q", ErrInvalidCriteria, s)
}

// Criteria are the user-controlled query parameters. SelectedSources is a
// set; an empty set means no source filtering.
type Criteria struct {
	SearchText      string     `json:"searchText"`
	SelectedSources []string   `json:"selectedSources"`
	DateWindow      DateWindow `json:"dateWindow"`
	SortOrder       SortOrder  `json:"sortOrder"`
}

func DefaultCriteria() Criteria {
	return Criteria{
		SelectedSources: []string{},
		DateWindow:      DateWindowAll,
		SortOrder:       SortNewest,
	}
}

// CriteriaUpdate is a partial change; nil fields are left untouched.
type CriteriaUpdate struct {
	SearchText      *string   `json:"searchText"`
	SelectedSources *[]string `json:"selectedSources"`
	DateWindow      *string   `json:"dateWindow"`
	SortOrder       *string   `json:"sortOrder"`
}

// Merge returns c with u applied. c is left unchanged on error.
func (c Criteria) Merge(u CriteriaUpdate) (Criteria, error) {
	out := c
	out.SelectedSources = slices.Clone(c.SelectedSources)

	if u.SearchText != nil {
		out.SearchText = *u.SearchText
	}
	if u.SelectedSources != nil {
		out.SelectedSources = sourceSet(*u.SelectedSources)
	}
	if u.DateWindow != nil {
		w, err := ParseDateWindow(*u.DateWindow)
		if err != nil {
			return c, err
		}
		out.DateWindow = w
	}
	if u.SortOrder != nil {
		o, err := ParseSortOrder(*u.SortOrder)
		if err != nil {
			return c, err
		}
		out.SortOrder = o
	}

	return out, nil
}

func sourceSet(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return out
}

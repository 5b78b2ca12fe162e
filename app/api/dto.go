package api

import (
	"cmp"
	"fmt"
	"time"

	"github.com/lysyi3m/pharma-pulse/app/news"
)

const (
	// FallbackSourceLabel is shown for articles without a source name.
	FallbackSourceLabel = "News Source"

	// FallbackImageURL is shown for articles without an image.
	FallbackImageURL = "https://images.unsplash.com/photo-1559757148-5c350d0d3c56?ixlib=rb-4.0.3&auto=format&fit=crop&w=500&q=80"

	unknownDate = "Recent"
)

type ArticleView struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Content        string     `json:"content"`
	URL            string     `json:"url"`
	ImageURL       string     `json:"imageUrl"`
	SourceName     string     `json:"sourceName"`
	SourceLabel    string     `json:"sourceLabel"`
	Author         string     `json:"author,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	PublishedAtRaw string     `json:"publishedAtRaw"`
	DisplayDate    string     `json:"displayDate"`
	Trending       bool       `json:"trending"`
	Saved          bool       `json:"saved"`
}

type SavedArticleView struct {
	ArticleView
	SavedAt          time.Time `json:"savedAt"`
	SavedDisplayDate string    `json:"savedDisplayDate"`
}

type FeedStateView struct {
	Status       news.Status `json:"status"`
	LastUpdated  *time.Time  `json:"lastUpdated,omitempty"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	ArticleCount int         `json:"articleCount"`
}

type PageView struct {
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	PageSizes  []int             `json:"pageSizes"`
	TotalPages int               `json:"totalPages"`
	First      int               `json:"first"`
	Last       int               `json:"last"`
	Markers    []news.PageMarker `json:"markers"`
}

type SessionView struct {
	ID            string        `json:"id"`
	Feed          FeedStateView `json:"feed"`
	Sources       []string      `json:"sources"`
	Criteria      news.Criteria `json:"criteria"`
	FilteredCount int           `json:"filteredCount"`
	Pagination    PageView      `json:"pagination"`
	Articles      []ArticleView `json:"articles"`
	SavedCount    int           `json:"savedCount"`
	AutoRefresh   bool          `json:"autoRefresh"`
}

func newArticleView(a news.Article, saved bool, now time.Time) ArticleView {
	view := ArticleView{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		Content:        a.Content,
		URL:            a.URL,
		ImageURL:       cmp.Or(a.ImageURL, FallbackImageURL),
		SourceName:     a.SourceName,
		SourceLabel:    cmp.Or(a.SourceName, FallbackSourceLabel),
		Author:         a.Author,
		PublishedAtRaw: a.PublishedAtRaw,
		DisplayDate:    unknownDate,
		Trending:       a.Trending,
		Saved:          saved,
	}
	if a.HasPublishedAt() {
		t := a.PublishedAt
		view.PublishedAt = &t
		view.DisplayDate = relativeDate(t, now)
	}
	return view
}

func newSavedArticleView(a news.SavedArticle, now time.Time) SavedArticleView {
	return SavedArticleView{
		ArticleView:      newArticleView(a.Article, true, now),
		SavedAt:          a.SavedAt,
		SavedDisplayDate: a.SavedAt.In(time.Local).Format("Jan 2"),
	}
}

func newFeedStateView(s news.FeedState) FeedStateView {
	return FeedStateView{
		Status:       s.Status,
		LastUpdated:  s.LastUpdated,
		ErrorMessage: s.ErrorMessage,
		ArticleCount: len(s.Articles),
	}
}

func newSessionView(id string, snap news.Snapshot, now time.Time) SessionView {
	articles := make([]ArticleView, 0, len(snap.Slice))
	for _, a := range snap.Slice {
		articles = append(articles, newArticleView(a, snap.SavedIDs[a.ID], now))
	}

	return SessionView{
		ID:            id,
		Feed:          newFeedStateView(snap.Feed),
		Sources:       snap.Sources,
		Criteria:      snap.Criteria,
		FilteredCount: snap.FilteredCount,
		Pagination: PageView{
			Page:       snap.Page,
			PageSize:   snap.PageSize,
			PageSizes:  news.PageSizes,
			TotalPages: snap.TotalPages,
			First:      snap.First,
			Last:       snap.Last,
			Markers:    snap.PageMarkers,
		},
		Articles:    articles,
		SavedCount:  snap.SavedCount,
		AutoRefresh: snap.AutoRefresh,
	}
}

// relativeDate renders recent timestamps as "Just now", "5h ago" or "3d ago"
// and older ones as a calendar date.
func relativeDate(t, now time.Time) string {
	hours := int(now.Sub(t).Hours())

	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case hours < 7*24:
		return fmt.Sprintf("%dd ago", hours/24)
	default:
		return t.In(time.Local).Format("Jan 2, 2006")
	}
}

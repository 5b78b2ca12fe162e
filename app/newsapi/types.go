package newsapi

// Response mirrors the /v2/everything payload. Field names follow the
// provider contract and must not be renamed.
type Response struct {
	Status       string    `json:"status"`
	Code         string    `json:"code,omitempty"`
	Message      string    `json:"message,omitempty"`
	TotalResults int       `json:"totalResults,omitempty"`
	Articles     []Article `json:"articles"`
}

type Article struct {
	Source      *Source `json:"source"`
	Author      string  `json:"author"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	URLToImage  string  `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     string  `json:"content"`
}

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SourceName returns the publication name or "" when the provider omitted it.
func (a Article) SourceName() string {
	if a.Source == nil {
		return ""
	}
	return a.Source.Name
}

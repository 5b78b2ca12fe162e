package feed

// Channel describes the RSS channel wrapping an export.
type Channel struct {
	Title       string
	Link        string
	Description string
	SelfLink    string
	Language    string
}

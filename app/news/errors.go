package news

import (
	"errors"
)

var (
	// ErrTransport covers an unreachable provider, a non-success reply and an
	// undecodable body.
	ErrTransport = errors.New("news provider request failed")

	// ErrNoArticles is returned when the request succeeded but nothing passed
	// admission.
	ErrNoArticles = errors.New("no articles found")

	ErrInvalidCriteria    = errors.New("invalid criteria")
	ErrPageOutOfRange     = errors.New("page out of range")
	ErrPageSizeNotAllowed = errors.New("page size not allowed")
	ErrArticleNotFound    = errors.New("article not found")
	ErrSessionNotFound    = errors.New("session not found")
)

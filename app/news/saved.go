package news

import (
	"slices"
	"time"
)

// SavedStore is the session-local bookmark set, keyed by article id and
// listed in the order articles were saved. It is not safe for concurrent
// use; Session serializes access.
type SavedStore struct {
	now   func() time.Time
	order []string
	items map[string]SavedArticle
}

func NewSavedStore(now func() time.Time) *SavedStore {
	if now == nil {
		now = time.Now
	}
	return &SavedStore{
		now:   now,
		items: make(map[string]SavedArticle),
	}
}

// Toggle removes the article if it is saved, otherwise saves a copy stamped
// with the current time. It reports whether the article is saved afterwards.
func (s *SavedStore) Toggle(a Article) bool {
	if _, ok := s.items[a.ID]; ok {
		delete(s.items, a.ID)
		s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == a.ID })
		return false
	}

	s.items[a.ID] = SavedArticle{Article: a, SavedAt: s.now()}
	s.order = append(s.order, a.ID)
	return true
}

func (s *SavedStore) IsSaved(id string) bool {
	_, ok := s.items[id]
	return ok
}

func (s *SavedStore) Get(id string) (SavedArticle, bool) {
	a, ok := s.items[id]
	return a, ok
}

func (s *SavedStore) List() []SavedArticle {
	out := make([]SavedArticle, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *SavedStore) Len() int {
	return len(s.items)
}

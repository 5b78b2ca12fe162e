package reader

import (
	"sync"
	"time"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type Entry struct {
	Status    Status    `json:"status"`
	Content   *Content  `json:"content,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store keeps extraction results keyed by article id for the life of the
// process.
type Store struct {
	now func() time.Time

	mu      sync.Mutex
	entries map[string]Entry
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now, entries: make(map[string]Entry)}
}

// Begin marks id as pending and reports whether the caller should start an
// extraction. It returns false while one is pending or after a success;
// failed entries may be retried.
func (s *Store) Begin(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok && e.Status != StatusFailed {
		return e, false
	}

	e := Entry{Status: StatusPending, UpdatedAt: s.now()}
	s.entries[id] = e
	return e, true
}

func (s *Store) Complete(id string, c Content) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = Entry{Status: StatusSuccess, Content: &c, UpdatedAt: s.now()}
}

func (s *Store) Fail(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = Entry{Status: StatusFailed, Error: err.Error(), UpdatedAt: s.now()}
}

// Forget drops id so a pending entry whose work was never scheduled does not
// block later attempts.
func (s *Store) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

// Counts reports how many entries are in each status.
func (s *Store) Counts() map[Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[Status]int, 3)
	for _, e := range s.entries {
		counts[e.Status]++
	}
	return counts
}

package news

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

type SessionOptions struct {
	ID              string
	Provider        Provider
	Clock           func() time.Time
	RefreshInterval time.Duration

	// OnTick runs on every auto-refresh tick. When nil the session refreshes
	// itself on a new goroutine.
	OnTick func(*Session)
}

// Session is the explicit state owner for one presentation session: feed
// state, criteria, derived view, page position, bookmarks and auto-refresh.
// Every getter returns a copy.
type Session struct {
	ID string

	client          *Client
	scheduler       *RefreshScheduler
	now             func() time.Time
	refreshInterval time.Duration

	mu        sync.RWMutex
	feed      FeedState
	sources   []string
	criteria  Criteria
	view      []Article
	pager     Pager
	saved     *SavedStore
	lastBatch uint64
	lastSeen  time.Time
}

func NewSession(opts SessionOptions) *Session {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &Session{
		ID:              opts.ID,
		client:          NewClient(opts.Provider),
		now:             clock,
		refreshInterval: opts.RefreshInterval,
		criteria:        DefaultCriteria(),
		sources:         []string{},
		view:            []Article{},
		pager:           NewPager(),
		saved:           NewSavedStore(clock),
		lastSeen:        clock(),
	}
	s.client.now = clock
	s.feed = s.client.State()
	s.client.OnChange(s.applyFeed)

	s.scheduler = NewRefreshScheduler(func() {
		if opts.OnTick != nil {
			opts.OnTick(s)
			return
		}
		go s.Refresh(context.Background())
	})

	return s
}

// applyFeed receives Feed Client transitions. A new batch rebuilds the
// source facet and the filtered view and returns to page 1.
func (s *Session) applyFeed(state FeedState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feed = state
	if state.batch == s.lastBatch {
		return
	}
	s.lastBatch = state.batch
	s.sources = ExtractSources(state.Articles)
	s.recomputeLocked()
}

func (s *Session) recomputeLocked() {
	s.view = Apply(s.feed.Articles, s.criteria, s.now())
	s.pager.Reset()
}

// ageViewLocked re-applies a time-bounded date window against the current
// clock, so articles leave the view once they fall outside it even when
// nothing else changes. A view that shrank this way returns to page 1.
func (s *Session) ageViewLocked() {
	if s.criteria.DateWindow == DateWindowAll {
		return
	}
	view := Apply(s.feed.Articles, s.criteria, s.now())
	if slices.EqualFunc(view, s.view, func(a, b Article) bool { return a.ID == b.ID }) {
		return
	}
	s.view = view
	s.pager.Reset()
}

// Refresh fetches a new batch now. It does not touch the auto-refresh
// interval.
func (s *Session) Refresh(ctx context.Context) FeedState {
	s.Touch()
	return s.client.Fetch(ctx)
}

func (s *Session) SetAutoRefresh(enabled bool) {
	s.Touch()
	s.scheduler.SetEnabled(enabled, s.refreshInterval)
}

func (s *Session) AutoRefresh() bool {
	return s.scheduler.Enabled()
}

func (s *Session) SetCriteria(update CriteriaUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	criteria, err := s.criteria.Merge(update)
	if err != nil {
		return err
	}
	s.criteria = criteria
	s.recomputeLocked()
	return nil
}

func (s *Session) SetPage(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	s.ageViewLocked()
	return s.pager.SetPage(n, TotalPages(len(s.view), s.pager.Size()))
}

func (s *Session) SetPageSize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	return s.pager.SetSize(n)
}

// ToggleSaveByID resolves id against the live batch, then the saved set, so
// a bookmark that dropped out of the feed can still be removed.
func (s *Session) ToggleSaveByID(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()

	if a, ok := s.findLocked(id); ok {
		return s.saved.Toggle(a), nil
	}
	if saved, ok := s.saved.Get(id); ok {
		return s.saved.Toggle(saved.Article), nil
	}
	return false, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
}

func (s *Session) IsSaved(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved.IsSaved(id)
}

func (s *Session) Saved() []SavedArticle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved.List()
}

// Article looks up id in the live batch, then in the saved set.
func (s *Session) Article(id string) (Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.findLocked(id); ok {
		return a, nil
	}
	if saved, ok := s.saved.Get(id); ok {
		return saved.Article, nil
	}
	return Article{}, fmt.Errorf("%w: %s", ErrArticleNotFound, id)
}

func (s *Session) findLocked(id string) (Article, bool) {
	i := slices.IndexFunc(s.feed.Articles, func(a Article) bool { return a.ID == id })
	if i < 0 {
		return Article{}, false
	}
	return s.feed.Articles[i], true
}

func (s *Session) FeedState() FeedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feed.clone()
}

func (s *Session) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sources)
}

func (s *Session) FilteredView() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ageViewLocked()
	return slices.Clone(s.view)
}

func (s *Session) CurrentSlice() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ageViewLocked()
	return Slice(s.view, s.pager.Page(), s.pager.Size())
}

func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ageViewLocked()
	return TotalPages(len(s.view), s.pager.Size())
}

// Snapshot is a consistent read of everything the presentation layer renders.
type Snapshot struct {
	Feed          FeedState
	Sources       []string
	Criteria      Criteria
	FilteredCount int
	Page          int
	PageSize      int
	TotalPages    int
	PageMarkers   []PageMarker
	First         int
	Last          int
	Slice         []Article
	SavedIDs      map[string]bool
	SavedCount    int
	AutoRefresh   bool
}

func (s *Session) Snapshot() Snapshot {
	autoRefresh := s.scheduler.Enabled()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ageViewLocked()

	page, size := s.pager.Page(), s.pager.Size()
	total := TotalPages(len(s.view), size)
	first, last := Bounds(page, size, len(s.view))
	slice := Slice(s.view, page, size)

	savedIDs := make(map[string]bool, len(slice))
	for _, a := range slice {
		if s.saved.IsSaved(a.ID) {
			savedIDs[a.ID] = true
		}
	}

	criteria := s.criteria
	criteria.SelectedSources = slices.Clone(criteria.SelectedSources)

	return Snapshot{
		Feed:          s.feed.clone(),
		Sources:       slices.Clone(s.sources),
		Criteria:      criteria,
		FilteredCount: len(s.view),
		Page:          page,
		PageSize:      size,
		TotalPages:    total,
		PageMarkers:   VisiblePages(page, total),
		First:         first,
		Last:          last,
		Slice:         slice,
		SavedIDs:      savedIDs,
		SavedCount:    s.saved.Len(),
		AutoRefresh:   autoRefresh,
	}
}

func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Close stops auto-refresh. A fetch already in flight still lands.
func (s *Session) Close() {
	s.scheduler.Stop()
}

package news

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/pharma-pulse/app/metrics"
)

const DefaultSessionTTL = 30 * time.Minute

type RegistryOptions struct {
	Provider        Provider
	SessionTTL      time.Duration
	RefreshInterval time.Duration
	Clock           func() time.Time

	// OnTick is passed to every session; see SessionOptions.
	OnTick func(*Session)
}

// Registry owns the live sessions, one per presentation session.
type Registry struct {
	opts RegistryOptions

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Registry{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Create() *Session {
	session := NewSession(SessionOptions{
		ID:              uuid.NewString(),
		Provider:        r.opts.Provider,
		Clock:           r.opts.Clock,
		RefreshInterval: r.opts.RefreshInterval,
		OnTick:          r.opts.OnTick,
	})

	r.mu.Lock()
	r.sessions[session.ID] = session
	count := len(r.sessions)
	r.mu.Unlock()

	metrics.Sessions.Set(float64(count))
	slog.Debug("Session created", "session", session.ID, "sessions", count)

	return session
}

// Get returns the session and marks it as active.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	session.Touch()
	return session, nil
}

func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	session, ok := r.sessions[id]
	delete(r.sessions, id)
	count := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return false
	}
	session.Close()
	metrics.Sessions.Set(float64(count))
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.opts.Clock().Add(-r.opts.SessionTTL)

	r.mu.Lock()
	var expired []*Session
	for id, session := range r.sessions {
		if session.LastSeen().Before(cutoff) {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	for _, session := range expired {
		session.Close()
	}

	if len(expired) > 0 {
		metrics.Sessions.Set(float64(count))
		slog.Info("Expired idle sessions", "expired", len(expired), "sessions", count)
	}

	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done, then closes
// every remaining session.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	metrics.Sessions.Set(0)
}

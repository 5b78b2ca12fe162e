package news

import (
	"log/slog"
	"sync"
	"time"
)

const DefaultRefreshInterval = 5 * time.Minute

// RefreshScheduler fires a callback on a fixed interval while enabled. At
// most one ticker runs at a time. Disabling stops future ticks only; work
// already started by fire is not interrupted.
type RefreshScheduler struct {
	fire func()

	mu       sync.Mutex
	stop     chan struct{}
	interval time.Duration
}

func NewRefreshScheduler(fire func()) *RefreshScheduler {
	return &RefreshScheduler{fire: fire}
}

// SetEnabled cancels any running ticker and, when enabled, starts a new one.
// A non-positive interval selects DefaultRefreshInterval.
func (s *RefreshScheduler) SetEnabled(enabled bool, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
		s.interval = 0
	}

	if !enabled {
		return
	}

	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	stop := make(chan struct{})
	s.stop = stop
	s.interval = interval
	go s.loop(stop, interval)

	slog.Debug("Auto-refresh enabled", "interval", interval)
}

func (s *RefreshScheduler) Stop() {
	s.SetEnabled(false, 0)
}

func (s *RefreshScheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *RefreshScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

func (s *RefreshScheduler) loop(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			s.fire()
		}
	}
}

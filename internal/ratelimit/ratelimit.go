// Package ratelimit provides the login throttle. The limiter is an
// interface so a shared counter store can replace the in-memory window
// in multi-instance deployments.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Allow(key string) bool
}

// SlidingWindow is an in-memory Limiter allowing at most limit hits per
// key within a rolling window. State is approximate: it resets on process
// restart and is not shared across instances. This is a deterrent, not a
// security boundary.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewSlidingWindow creates a limiter allowing limit hits per window
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
// A denied attempt is not recorded, so a blocked client does not extend
// its own lockout.
func (s *SlidingWindow) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-s.window)

	kept := s.hits[key][:0]
	for _, t := range s.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= s.limit {
		s.hits[key] = kept
		return false
	}

	s.hits[key] = append(kept, now)
	return true
}

// Prune evicts keys whose entries have all aged out of the window
func (s *SlidingWindow) Prune() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.window)
	for key, times := range s.hits {
		live := false
		for _, t := range times {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(s.hits, key)
		}
	}
}

// StartPruning runs Prune on every tick until stop is closed
func (s *SlidingWindow) StartPruning(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Prune()
			case <-stop:
				return
			}
		}
	}()
}

package services

import (
	"sync"
	"time"
)

const defaultDriftEntryTTL = 30 * time.Minute

type driftEntry struct {
	strikes int
	touched time.Time
}

// DriftTracker counts consecutive off-topic turns per conversation session.
// Entries expire after a TTL so abandoned sessions do not accumulate.
type DriftTracker struct {
	mu      sync.Mutex
	entries map[string]driftEntry
	ttl     time.Duration
	clock   func() time.Time
}

// NewDriftTracker builds a tracker with the given entry TTL. A zero ttl
// falls back to thirty minutes; a nil clock uses the wall clock.
func NewDriftTracker(ttl time.Duration, clock func() time.Time) *DriftTracker {
	if ttl <= 0 {
		ttl = defaultDriftEntryTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &DriftTracker{
		entries: make(map[string]driftEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

// Strike records one off-topic turn for the session and returns the
// consecutive strike count including this one.
func (t *DriftTracker) Strike(key string) int {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)

	entry := t.entries[key]
	entry.strikes++
	entry.touched = now
	t.entries[key] = entry
	return entry.strikes
}

// Reset clears the strike count for the session. Called whenever the user
// is back on topic.
func (t *DriftTracker) Reset(key string) {
	now := t.clock()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pruneLocked(now)
	delete(t.entries, key)
}

func (t *DriftTracker) pruneLocked(now time.Time) {
	for key, entry := range t.entries {
		if now.Sub(entry.touched) > t.ttl {
			delete(t.entries, key)
		}
	}
}

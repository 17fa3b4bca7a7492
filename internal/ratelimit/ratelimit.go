package ratelimit

import (
	"sync"
	"time"
)

const shardCount = 16

type window struct {
	count int
	until time.Time
}

type shard struct {
	mu      sync.Mutex
	windows map[int64]*window
}

// Limiter grants at most limit acquisitions per key within a fixed window.
// A key's first acquisition opens its window; once the window elapses the
// next acquisition opens a fresh one. Keys are sharded so unrelated users
// never contend on the same lock.
type Limiter struct {
	limit  int
	per    time.Duration
	shards [shardCount]shard

	// now is overridable in tests.
	now func() time.Time
}

// New creates a Limiter allowing limit acquisitions per key every per.
func New(limit int, per time.Duration) *Limiter {
	l := &Limiter{limit: limit, per: per, now: time.Now}
	for i := range l.shards {
		l.shards[i].windows = make(map[int64]*window)
	}
	return l
}

// TryAcquire reports whether key may proceed. Denial is immediate; there is
// no queuing.
func (l *Limiter) TryAcquire(key int64) bool {
	s := &l.shards[uint64(key)%shardCount]
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.now()
	w, ok := s.windows[key]
	if !ok || now.After(w.until) {
		s.windows[key] = &window{count: 1, until: now.Add(l.per)}
		return true
	}
	w.count++
	return w.count <= l.limit
}

package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(limit int, per time.Duration) (*Limiter, *time.Time) {
	l := New(limit, per)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestTryAcquireDeniesBeyondLimit(t *testing.T) {
	l, _ := newTestLimiter(3, 5*time.Minute)

	for i := 0; i < 3; i++ {
		if !l.TryAcquire(7) {
			t.Fatalf("acquisition %d denied, want allowed", i+1)
		}
	}
	if l.TryAcquire(7) {
		t.Fatal("acquisition 4 allowed, want denied")
	}
	if l.TryAcquire(7) {
		t.Fatal("acquisition 5 allowed, want denied")
	}
}

func TestTryAcquireResetsAfterWindow(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	if !l.TryAcquire(1) || !l.TryAcquire(1) {
		t.Fatal("initial acquisitions denied")
	}
	if l.TryAcquire(1) {
		t.Fatal("over-limit acquisition allowed within window")
	}

	*now = now.Add(time.Minute + time.Second)
	if !l.TryAcquire(1) {
		t.Fatal("acquisition denied after window elapsed")
	}
}

func TestTryAcquireKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.TryAcquire(1) {
		t.Fatal("first key denied")
	}
	if l.TryAcquire(1) {
		t.Fatal("first key allowed twice")
	}
	if !l.TryAcquire(2) {
		t.Fatal("second key denied despite fresh window")
	}
	// Keys landing on the same shard still track separately.
	if !l.TryAcquire(2 + shardCount) {
		t.Fatal("shard-colliding key denied")
	}
}

func TestTryAcquireConcurrentCounts(t *testing.T) {
	l := New(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.TryAcquire(42)
		}()
	}
	wg.Wait()
	close(allowed)

	var n int
	for ok := range allowed {
		if ok {
			n++
		}
	}
	if n != 50 {
		t.Fatalf("allowed %d acquisitions, want exactly 50", n)
	}
}

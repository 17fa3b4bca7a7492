package horde

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedPoller struct {
	statuses []Status
	calls    int
}

func (p *scriptedPoller) Poll(ctx context.Context, id string) (Status, error) {
	if p.calls >= len(p.statuses) {
		return Status{Done: true}, nil
	}
	s := p.statuses[p.calls]
	p.calls++
	return s, nil
}

type emission struct {
	status   Status
	longWait bool
	at       time.Time
}

// testLoop wires a PollLoop to a fake clock: every sleep advances the
// clock by step.
func testLoop(p StatusPoller, step time.Duration) (*PollLoop, *time.Time) {
	l := NewPollLoop(p)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.sleep = func(ctx context.Context, _ time.Duration) error {
		now = now.Add(step)
		return ctx.Err()
	}
	return l, &now
}

func runLoop(t *testing.T, l *PollLoop, clock *time.Time) []emission {
	t.Helper()
	var emissions []emission
	err := l.Run(context.Background(), "job", func(status Status, longWait bool) error {
		emissions = append(emissions, emission{status: status, longWait: longWait, at: *clock})
		return nil
	})
	require.NoError(t, err)
	return emissions
}

func TestRunStopsAtDone(t *testing.T) {
	p := &scriptedPoller{statuses: []Status{
		{Waiting: 1, WaitTime: 5},
		{Processing: 1, WaitTime: 3},
		{Done: true},
	}}
	l, clock := testLoop(p, editDebounce)

	runLoop(t, l, clock)
	assert.Equal(t, 3, p.calls, "no poll may follow a done status")
}

func TestEqualStatusesEmitOnce(t *testing.T) {
	s := Status{Waiting: 2, WaitTime: 10}
	p := &scriptedPoller{statuses: []Status{s, s, s, s, {Done: true}}}
	l, clock := testLoop(p, editDebounce)

	emissions := runLoop(t, l, clock)
	require.Len(t, emissions, 1)
	assert.Equal(t, s, emissions[0].status)
}

func TestEmissionsRespectDebounce(t *testing.T) {
	// A status change every 2s poll; only the first emission and the ones
	// 12s or more apart may go out.
	statuses := make([]Status, 0, 10)
	for i := 0; i < 9; i++ {
		statuses = append(statuses, Status{Waiting: 1, WaitTime: 20 - i})
	}
	statuses = append(statuses, Status{Done: true})
	p := &scriptedPoller{statuses: statuses}
	l, clock := testLoop(p, pollInterval)

	emissions := runLoop(t, l, clock)
	require.Len(t, emissions, 2)
	assert.Equal(t, 20, emissions[0].status.WaitTime)
	// Iterations at +2s..+10s are suppressed; +12s is eligible again.
	assert.Equal(t, 14, emissions[1].status.WaitTime)
	assert.GreaterOrEqual(t, emissions[1].at.Sub(emissions[0].at), editDebounce)
}

func TestLongWaitNoticeIsSticky(t *testing.T) {
	p := &scriptedPoller{statuses: []Status{
		{Waiting: 1, WaitTime: 5},
		{Waiting: 1, WaitTime: 35},
		{Waiting: 1, WaitTime: 4},
		{Waiting: 1, WaitTime: 3},
		{Done: true},
	}}
	l, clock := testLoop(p, editDebounce)

	emissions := runLoop(t, l, clock)
	require.Len(t, emissions, 4)
	assert.False(t, emissions[0].longWait)
	for _, e := range emissions[1:] {
		assert.True(t, e.longWait, "notice must stay on after wait_time >= 30 was seen")
	}
}

func TestThreeStatusScenario(t *testing.T) {
	// Poll sequence done=false/wait=5, done=false/wait=35, done=true with
	// the debounce window elapsing between iterations: exactly one emitted
	// update carries the long-wait notice.
	p := &scriptedPoller{statuses: []Status{
		{Waiting: 1, WaitTime: 5},
		{Waiting: 1, WaitTime: 35},
		{Done: true},
	}}
	l, clock := testLoop(p, editDebounce)

	emissions := runLoop(t, l, clock)
	require.Len(t, emissions, 2)
	var withNotice int
	for _, e := range emissions {
		if e.longWait {
			withNotice++
			assert.Equal(t, 35, e.status.WaitTime)
		}
	}
	assert.Equal(t, 1, withNotice)
}

func TestChangeInsideDebounceWindowMaySkipForever(t *testing.T) {
	// The final pre-completion status changes within the window and is
	// never shown; preserved behavior.
	p := &scriptedPoller{statuses: []Status{
		{Waiting: 2, WaitTime: 10},
		{Processing: 2, WaitTime: 4},
		{Done: true},
	}}
	l, clock := testLoop(p, pollInterval)

	emissions := runLoop(t, l, clock)
	require.Len(t, emissions, 1)
	assert.Equal(t, 10, emissions[0].status.WaitTime)
}

func TestRunStopsWhenCancelled(t *testing.T) {
	p := &scriptedPoller{statuses: []Status{
		{Waiting: 1, WaitTime: 5},
		{Waiting: 1, WaitTime: 4},
	}}
	l := NewPollLoop(p)
	l.sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	err := l.Run(context.Background(), "job", func(Status, bool) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, p.calls)
}

package horde

import (
	"context"
	"time"
)

const (
	pollInterval = 2 * time.Second
	editDebounce = 12 * time.Second

	// longWaitSeconds is the estimated wait that flips the sticky
	// volunteer notice on for the rest of the job.
	longWaitSeconds = 30
)

// StatusPoller is the slice of Client the poll loop needs.
type StatusPoller interface {
	Poll(ctx context.Context, id string) (Status, error)
}

// EmitFunc publishes one progress snapshot. longWait stays true once any
// observed status crossed the long-wait threshold.
type EmitFunc func(status Status, longWait bool) error

// PollLoop repeatedly checks a job's status until the remote service
// reports completion, emitting debounced progress updates along the way.
// There is no deadline of its own; cancellation comes from ctx.
type PollLoop struct {
	poller   StatusPoller
	interval time.Duration
	debounce time.Duration

	// clock hooks, overridable in tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPollLoop builds a loop with the stock 2s interval and 12s debounce.
func NewPollLoop(poller StatusPoller) *PollLoop {
	return &PollLoop{
		poller:   poller,
		interval: pollInterval,
		debounce: editDebounce,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Run polls until a status reports Done, which is terminal. The update
// policy per iteration:
//
//  1. a status equal by value to the last emitted one is suppressed;
//  2. otherwise it is emitted if nothing was emitted yet or the debounce
//     window elapsed since the last emission;
//  3. otherwise it is suppressed, and a later iteration may emit whatever
//     is latest then. Statuses changing faster than the window are skipped.
func (l *PollLoop) Run(ctx context.Context, id string, emit EmitFunc) error {
	var (
		lastEmitted *Status
		lastEmitAt  time.Time
		longWait    bool
	)
	for {
		status, err := l.poller.Poll(ctx, id)
		if err != nil {
			return err
		}
		if status.Done {
			return nil
		}

		if status.WaitTime >= longWaitSeconds {
			longWait = true
		}

		if lastEmitted == nil || *lastEmitted != status {
			if lastEmitAt.IsZero() || l.now().Sub(lastEmitAt) >= l.debounce {
				if err := emit(status, longWait); err != nil {
					return err
				}
				emitted := status
				lastEmitted = &emitted
				lastEmitAt = l.now()
			}
		}

		if err := l.sleep(ctx, l.interval); err != nil {
			return err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

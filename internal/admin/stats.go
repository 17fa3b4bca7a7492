package admin

import (
	"sync/atomic"
	"time"
)

// Stats tracks process-lifetime counters exposed on the admin surface.
// All methods are safe for concurrent use.
type Stats struct {
	started time.Time

	updatesSeen   atomic.Int64
	commandsRun   atomic.Int64
	jobsStarted   atomic.Int64
	jobsCompleted atomic.Int64
	jobsFailed    atomic.Int64
}

// NewStats starts the uptime clock.
func NewStats() *Stats {
	return &Stats{started: time.Now()}
}

func (s *Stats) UpdateSeen()   { s.updatesSeen.Add(1) }
func (s *Stats) CommandRun()   { s.commandsRun.Add(1) }
func (s *Stats) JobStarted()   { s.jobsStarted.Add(1) }
func (s *Stats) JobCompleted() { s.jobsCompleted.Add(1) }
func (s *Stats) JobFailed()    { s.jobsFailed.Add(1) }

// Snapshot is the JSON shape served by /statusz.
type Snapshot struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	UpdatesSeen   int64 `json:"updates_seen"`
	CommandsRun   int64 `json:"commands_run"`
	JobsStarted   int64 `json:"jobs_started"`
	JobsCompleted int64 `json:"jobs_completed"`
	JobsFailed    int64 `json:"jobs_failed"`
}

// Snapshot returns a point-in-time copy of the counters.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		UpdatesSeen:   s.updatesSeen.Load(),
		CommandsRun:   s.commandsRun.Load(),
		JobsStarted:   s.jobsStarted.Load(),
		JobsCompleted: s.jobsCompleted.Load(),
		JobsFailed:    s.jobsFailed.Load(),
	}
}

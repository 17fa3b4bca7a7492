package horde

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hordebot/internal/collage"
	"hordebot/internal/ratelimit"
	"hordebot/pkg/textutil"
)

const (
	gridColumns = 2
	gridPadding = 8

	creditText = "generated thanks to Stable Horde"
	creditURL  = "https://stablehorde.net/"
)

// ErrRateLimited aborts a job before any network call is made.
var ErrRateLimited = errors.New("horde: rate limited")

// StatusMessage is an opaque handle to the interim progress message. Only
// the Messenger that produced it consumes it.
type StatusMessage any

// Artifact is the finished composite handed to the message delivery
// collaborator. Path points at a transient file the caller may read until
// Run returns.
type Artifact struct {
	Path          string
	Width, Height int
	CreditText    string
	CreditURL     string
}

// Messenger delivers progress and final results to the chat. Implemented
// by the bot's per-invocation context.
type Messenger interface {
	SendStatus(ctx context.Context, text string) (StatusMessage, error)
	EditStatus(ctx context.Context, msg StatusMessage, text string) (StatusMessage, error)
	SendFinal(ctx context.Context, artifact Artifact, caption string) error
	DeleteStatus(ctx context.Context, msg StatusMessage) error
}

// JobClient is the remote surface the orchestrator drives.
type JobClient interface {
	Submit(ctx context.Context, prompt, model string, size int) (string, error)
	Poll(ctx context.Context, id string) (Status, error)
	FetchResults(ctx context.Context, id string) ([]Generation, error)
}

// Request describes one generation job.
type Request struct {
	UserID int64
	Prompt string
	Model  string
	Size   int
}

// Orchestrator composes admission control, prompt validation, the
// submit/poll/aggregate pipeline and delivery for one job per Run call.
// Jobs from different invocations run independently; the rate limiter is
// the only shared state.
type Orchestrator struct {
	client      JobClient
	limiter     *ratelimit.Limiter
	checkPrompt func(string) error
	logger      zerolog.Logger
	loop        *PollLoop
}

// NewOrchestrator wires the orchestrator. checkPrompt returns a non-nil
// error for prompts the job must reject before submission.
func NewOrchestrator(client JobClient, limiter *ratelimit.Limiter, checkPrompt func(string) error, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		client:      client,
		limiter:     limiter,
		checkPrompt: checkPrompt,
		logger:      logger,
		loop:        NewPollLoop(client),
	}
}

// Run executes one job end to end. Any failure from submit, poll
// exhaustion or fetch surfaces as a single job-level error; an outstanding
// progress message is cleaned up on the success path only.
func (o *Orchestrator) Run(ctx context.Context, req Request, m Messenger) error {
	if !o.limiter.TryAcquire(req.UserID) {
		return ErrRateLimited
	}
	if err := o.checkPrompt(req.Prompt); err != nil {
		o.logger.Info().Err(err).Int64("user_id", req.UserID).Msg("horde: prompt rejected")
		return err
	}

	jobLog := o.logger.With().Str("job", uuid.NewString()[:8]).Int64("user_id", req.UserID).Logger()

	jobID, err := o.client.Submit(ctx, req.Prompt, req.Model, req.Size)
	if err != nil {
		return err
	}
	jobLog.Info().Str("remote_id", jobID).Str("model", req.Model).Msg("horde: job submitted")

	start := o.loop.now()
	escapedPrompt := textutil.EscapeMarkdown(req.Prompt)

	var statusMsg StatusMessage
	err = o.loop.Run(ctx, jobID, func(status Status, longWait bool) error {
		text := formatStatus(status, escapedPrompt, longWait)
		if statusMsg == nil {
			msg, err := m.SendStatus(ctx, text)
			if err != nil {
				return err
			}
			statusMsg = msg
			return nil
		}
		msg, err := m.EditStatus(ctx, statusMsg, text)
		if err != nil {
			return err
		}
		statusMsg = msg
		return nil
	})
	if err != nil {
		return err
	}
	elapsed := o.loop.now().Sub(start)

	generations, err := o.client.FetchResults(ctx, jobID)
	if err != nil {
		return err
	}

	items := make([]collage.Item, 0, len(generations))
	for _, g := range generations {
		items = append(items, collage.Item{Worker: g.Worker, Image: g.Image})
	}
	composite, attribution := collage.Aggregate(items, collage.Layout{
		Columns: gridColumns,
		Padding: gridPadding,
		Edge:    req.Size,
	})

	file, err := os.CreateTemp("", "hordebot-*.png")
	if err != nil {
		return fmt.Errorf("horde: create artifact: %w", err)
	}
	defer os.Remove(file.Name())
	if err := png.Encode(file, composite); err != nil {
		file.Close()
		return fmt.Errorf("horde: encode artifact: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("horde: close artifact: %w", err)
	}

	caption := fmt.Sprintf(
		"generated *%s* in %s by %s\\.",
		escapedPrompt,
		textutil.FormatDuration(uint64(elapsed.Seconds())),
		textutil.EscapeMarkdown(attribution),
	)
	artifact := Artifact{
		Path:       file.Name(),
		Width:      composite.Bounds().Dx(),
		Height:     composite.Bounds().Dy(),
		CreditText: creditText,
		CreditURL:  creditURL,
	}
	if err := m.SendFinal(ctx, artifact, caption); err != nil {
		return err
	}
	jobLog.Info().Dur("took", elapsed).Int("generations", len(generations)).Msg("horde: job delivered")

	if statusMsg != nil {
		if err := m.DeleteStatus(ctx, statusMsg); err != nil {
			jobLog.Warn().Err(err).Msg("horde: could not delete progress message")
		}
	}
	return nil
}

func formatStatus(status Status, escapedPrompt string, longWait bool) string {
	var queueInfo string
	if status.QueuePosition > 0 {
		queueInfo = fmt.Sprintf("queue position: %d\n", status.QueuePosition)
	}

	waitTime := status.WaitTime
	if waitTime < 0 {
		waitTime = 0
	}
	text := fmt.Sprintf(
		"generating %s…\n%s`%s` ETA: %s",
		escapedPrompt,
		queueInfo,
		workerBar(status.Waiting, status.Processing, status.Finished),
		textutil.FormatDuration(uint64(waitTime)),
	)

	if longWait {
		text += "\n\nStable Horde is run by volunteers\\. " +
			"to make waiting times shorter, " +
			"[consider joining yourself](https://stablehorde.net/)\\!"
	}
	return text
}

// workerBar renders five characters per worker slot: "=" finished,
// "-" processing, space waiting.
func workerBar(waiting, processing, finished int) string {
	if waiting < 0 {
		waiting = 0
	}
	if processing < 0 {
		processing = 0
	}
	if finished < 0 {
		finished = 0
	}
	var b strings.Builder
	b.Grow(5*(waiting+processing+finished) + 2)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", 5*finished))
	b.WriteString(strings.Repeat("-", 5*processing))
	b.WriteString(strings.Repeat(" ", 5*waiting))
	b.WriteByte(']')
	return b.String()
}

// Package commands implements the bot's chat command set.
package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hordebot/internal/admin"
	"hordebot/internal/bot"
	"hordebot/internal/horde"
	"hordebot/internal/ratelimit"
)

// jobsPerWindow / jobWindow is the per-user admission budget each
// generation command enforces.
const (
	jobsPerWindow = 3
	jobWindow     = 5 * time.Minute
)

// StableHorde generates images through the Stable Horde queue. Each model
// variant is its own command instance with its own admission budget.
type StableHorde struct {
	names       []string
	description string
	model       string
	size        int
	orch        *horde.Orchestrator
	stats       *admin.Stats
}

func newStableHorde(names []string, description, model string, size int, client *horde.Client, stats *admin.Stats, logger zerolog.Logger) *StableHorde {
	return &StableHorde{
		names:       names,
		description: description,
		model:       model,
		size:        size,
		orch: horde.NewOrchestrator(client,
			ratelimit.New(jobsPerWindow, jobWindow), bot.CheckPrompt, logger),
		stats: stats,
	}
}

// NewStableDiffusion2 generates with Stable Diffusion 2.0 at 768px.
func NewStableDiffusion2(client *horde.Client, stats *admin.Stats, logger zerolog.Logger) *StableHorde {
	return newStableHorde([]string{"stable_diffusion_2", "sd2"},
		"generate images using Stable Diffusion 2.0", "stable_diffusion_2.0", 768,
		client, stats, logger)
}

// NewStableDiffusion generates with Stable Diffusion 1.x at 512px.
func NewStableDiffusion(client *horde.Client, stats *admin.Stats, logger zerolog.Logger) *StableHorde {
	return newStableHorde([]string{"stable_diffusion", "sd"},
		"generate images using Stable Diffusion", "stable_diffusion", 512,
		client, stats, logger)
}

// NewWaifuDiffusion generates with Waifu Diffusion at 512px.
func NewWaifuDiffusion(client *horde.Client, stats *admin.Stats, logger zerolog.Logger) *StableHorde {
	return newStableHorde([]string{"waifu_diffusion", "wd"},
		"generate images using Waifu Diffusion", "waifu_diffusion", 512,
		client, stats, logger)
}

// NewFurryDiffusion generates with Furry Epoch at 512px.
func NewFurryDiffusion(client *horde.Client, stats *admin.Stats, logger zerolog.Logger) *StableHorde {
	return newStableHorde([]string{"furry_diffusion", "fd"},
		"generate images using Furry Epoch", "Furry Epoch", 512,
		client, stats, logger)
}

func (c *StableHorde) Names() []string {
	return c.names
}

func (c *StableHorde) Description() string {
	return c.description
}

func (c *StableHorde) Execute(ctx context.Context, inv *bot.Invocation, args string) error {
	prompt, _, err := bot.ResolveArgument(inv, bot.ArgGreedyOrReply, args, "prompt to generate")
	if err != nil {
		return err
	}

	c.stats.JobStarted()
	req := horde.Request{UserID: inv.UserID, Prompt: prompt, Model: c.model, Size: c.size}
	if err := c.orch.Run(ctx, req, inv); err != nil {
		c.stats.JobFailed()
		return err
	}
	c.stats.JobCompleted()
	return nil
}

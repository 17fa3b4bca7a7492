package commands

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"hordebot/internal/bot"
	"hordebot/internal/collage"
	"hordebot/internal/craiyon"
	"hordebot/internal/ratelimit"
	"hordebot/pkg/textutil"
)

const (
	craiyonCreditText = "powered by Craiyon"
	craiyonCreditURL  = "https://www.craiyon.com/"
)

// Craiyon generates an image batch synchronously through the Craiyon
// backend and replies with a composite.
type Craiyon struct {
	client  *craiyon.Client
	limiter *ratelimit.Limiter
}

// NewCraiyon wires the Craiyon command with its own admission budget.
func NewCraiyon(client *craiyon.Client) *Craiyon {
	return &Craiyon{client: client, limiter: ratelimit.New(jobsPerWindow, jobWindow)}
}

func (c *Craiyon) Names() []string {
	return []string{"generate", "craiyon"}
}

func (c *Craiyon) Description() string {
	return "generate images using Craiyon"
}

func (c *Craiyon) Execute(ctx context.Context, inv *bot.Invocation, args string) error {
	prompt, _, err := bot.ResolveArgument(inv, bot.ArgGreedyOrReply, args, "prompt to generate")
	if err != nil {
		return err
	}
	if !c.limiter.TryAcquire(inv.UserID) {
		return bot.ErrRateLimited
	}
	if err := bot.CheckPrompt(prompt); err != nil {
		return err
	}

	inv.Transport.SendTyping(ctx, inv.ChatID)

	result, err := c.client.Generate(ctx, prompt)
	if err != nil {
		inv.Logger.Error().Err(err).Msg("craiyon generation failed")
		return &bot.UserError{Message: "image generation failed, please try again later."}
	}

	items := make([]collage.Item, 0, len(result.Images))
	for _, img := range result.Images {
		items = append(items, collage.Item{Image: img})
	}
	composite, _ := collage.Aggregate(items, collage.Layout{Columns: 3, Padding: 8, Edge: 256})

	path, err := writeTempPNG(composite)
	if err != nil {
		return err
	}
	defer os.Remove(path)

	caption := fmt.Sprintf("generated *%s* in %s\\.",
		textutil.EscapeMarkdown(prompt),
		textutil.FormatDuration(uint64(result.Duration.Seconds())))
	_, err = inv.Transport.SendPhoto(ctx, inv.ChatID, inv.MessageID,
		path, caption, craiyonCreditText, craiyonCreditURL)
	return err
}

func writeTempPNG(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "hordebot-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("encode composite: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

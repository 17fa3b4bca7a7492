package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hordebot/internal/bot"
	"hordebot/internal/palm"
	"hordebot/internal/ratelimit"
)

// Palm asks the Google PaLM model to answer a prompt. Filtered responses
// and rejected requests both come back as chat replies, not failures.
type Palm struct {
	client  *palm.Client
	limiter *ratelimit.Limiter
}

func NewPalm(client *palm.Client) *Palm {
	return &Palm{client: client, limiter: ratelimit.New(3, 45*time.Second)}
}

func (c *Palm) Names() []string {
	return []string{"google_palm", "palm"}
}

func (c *Palm) Description() string {
	return "ask Google PaLM"
}

func (c *Palm) Execute(ctx context.Context, inv *bot.Invocation, args string) error {
	prompt, _, err := bot.ResolveArgument(inv, bot.ArgGreedyOrReply, args, "prompt to ask")
	if err != nil {
		return err
	}
	if !c.limiter.TryAcquire(inv.UserID) {
		return bot.ErrRateLimited
	}

	inv.Transport.SendTyping(ctx, inv.ChatID)

	result, err := c.client.GenerateText(ctx, prompt)
	if err != nil {
		var apiErr *palm.APIError
		if errors.As(err, &apiErr) {
			_, err := inv.Reply(ctx, fmt.Sprintf("error %d: %s", apiErr.Code, apiErr.Message))
			return err
		}
		return err
	}

	if len(result.Filters) > 0 {
		_, err := inv.Reply(ctx, "request filtered by Google: "+filterReasons(result.Filters)+".")
		return err
	}
	_, err = inv.Reply(ctx, result.Text)
	return err
}

func filterReasons(filters []palm.Filter) string {
	reasons := make([]string, 0, len(filters))
	for _, f := range filters {
		if f.Message != "" {
			reasons = append(reasons, f.Reason+": "+f.Message)
		} else {
			reasons = append(reasons, f.Reason)
		}
	}
	return strings.Join(reasons, ", ")
}

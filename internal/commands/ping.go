package commands

import (
	"context"
	"fmt"
	"time"

	"hordebot/internal/bot"
)

// Ping measures the round trip of one send call.
type Ping struct{}

func NewPing() *Ping {
	return &Ping{}
}

func (c *Ping) Names() []string {
	return []string{"ping"}
}

func (c *Ping) Description() string {
	return "measure the bot's response time"
}

func (c *Ping) Execute(ctx context.Context, inv *bot.Invocation, _ string) error {
	start := time.Now()
	msg, err := inv.Reply(ctx, "measuring…")
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	_, err = inv.Transport.EditPlain(ctx, msg, fmt.Sprintf("ping: %dms", elapsed.Milliseconds()))
	return err
}

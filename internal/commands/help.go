package commands

import (
	"context"
	"strings"

	"hordebot/internal/bot"
)

// Help lists the registered commands. The listing is produced lazily so
// commands registered after Help still show up.
type Help struct {
	describe func() []string
}

func NewHelp(describe func() []string) *Help {
	return &Help{describe: describe}
}

func (c *Help) Names() []string {
	return []string{"help", "start"}
}

func (c *Help) Description() string {
	return "list the available commands"
}

func (c *Help) Execute(ctx context.Context, inv *bot.Invocation, _ string) error {
	_, err := inv.Reply(ctx, strings.Join(c.describe(), "\n"))
	return err
}

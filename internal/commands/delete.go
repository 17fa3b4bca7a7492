package commands

import (
	"context"

	"hordebot/internal/bot"
	"hordebot/internal/telegram"
)

// Delete removes the replied-to bot message. Only the configured owner may
// use it; everyone else gets silence.
type Delete struct {
	ownerID int64
}

func NewDelete(ownerID int64) *Delete {
	return &Delete{ownerID: ownerID}
}

func (c *Delete) Names() []string {
	return []string{"delete", "del"}
}

func (c *Delete) Description() string {
	return "delete the replied-to message (owner only)"
}

func (c *Delete) Execute(ctx context.Context, inv *bot.Invocation, _ string) error {
	if c.ownerID == 0 || inv.UserID != c.ownerID {
		return nil
	}
	if inv.ReplyMessageID == 0 {
		return nil
	}
	// Deletion can fail when the target is already gone; not worth
	// surfacing to the chat.
	if err := inv.Transport.Delete(ctx, telegram.Message{ChatID: inv.ChatID, ID: inv.ReplyMessageID}); err != nil {
		inv.Logger.Debug().Err(err).Msg("delete failed")
	}
	return nil
}

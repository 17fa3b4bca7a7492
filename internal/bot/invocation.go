package bot

import (
	"context"

	"github.com/rs/zerolog"

	"hordebot/internal/horde"
	"hordebot/internal/telegram"
)

// Transport is the slice of the Telegram client the command layer uses.
type Transport interface {
	SendMarkdown(ctx context.Context, chatID int64, replyTo int, text string) (telegram.Message, error)
	SendPlain(ctx context.Context, chatID int64, replyTo int, text string) (telegram.Message, error)
	EditMarkdown(ctx context.Context, msg telegram.Message, text string) (telegram.Message, error)
	EditPlain(ctx context.Context, msg telegram.Message, text string) (telegram.Message, error)
	SendPhoto(ctx context.Context, chatID int64, replyTo int, path, caption, buttonText, buttonURL string) (telegram.Message, error)
	Delete(ctx context.Context, msg telegram.Message) error
	SendTyping(ctx context.Context, chatID int64)
}

// Invocation is the per-command-invocation context: the triggering message
// and the transport to answer through. One Invocation is owned by exactly
// one command execution.
type Invocation struct {
	ChatID    int64
	MessageID int
	UserID    int64

	// UserLanguage is the sender's IETF language tag, may be empty.
	UserLanguage string

	// ReplyMessageID and ReplyText describe the replied-to message, when
	// the triggering message was a reply.
	ReplyMessageID int
	ReplyText      string

	Transport Transport
	Logger    zerolog.Logger
}

// Reply sends a plain-text reply to the triggering message.
func (inv *Invocation) Reply(ctx context.Context, text string) (telegram.Message, error) {
	return inv.Transport.SendPlain(ctx, inv.ChatID, inv.MessageID, text)
}

// ReplyMarkdown sends a MarkdownV2 reply to the triggering message.
func (inv *Invocation) ReplyMarkdown(ctx context.Context, text string) (telegram.Message, error) {
	return inv.Transport.SendMarkdown(ctx, inv.ChatID, inv.MessageID, text)
}

// The Invocation doubles as the message-delivery collaborator for
// generation jobs.
var _ horde.Messenger = (*Invocation)(nil)

// SendStatus posts the interim progress message.
func (inv *Invocation) SendStatus(ctx context.Context, text string) (horde.StatusMessage, error) {
	msg, err := inv.ReplyMarkdown(ctx, text)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// EditStatus rewrites the interim progress message in place.
func (inv *Invocation) EditStatus(ctx context.Context, handle horde.StatusMessage, text string) (horde.StatusMessage, error) {
	msg, err := inv.Transport.EditMarkdown(ctx, handle.(telegram.Message), text)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// SendFinal delivers the finished composite with its caption and credit
// button.
func (inv *Invocation) SendFinal(ctx context.Context, artifact horde.Artifact, caption string) error {
	_, err := inv.Transport.SendPhoto(ctx, inv.ChatID, inv.MessageID,
		artifact.Path, caption, artifact.CreditText, artifact.CreditURL)
	return err
}

// DeleteStatus removes the interim progress message.
func (inv *Invocation) DeleteStatus(ctx context.Context, handle horde.StatusMessage) error {
	return inv.Transport.Delete(ctx, handle.(telegram.Message))
}

// Package telegram wraps the Bot API client: sending, editing and deleting
// chat messages, photo delivery and the long-poll update stream. All sends
// go through a process-wide rate limiter so bursts of progress edits stay
// inside the platform's flood limits.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Message identifies one sent chat message.
type Message struct {
	ChatID int64
	ID     int
}

// Client is a thin wrapper over the Bot API transport.
type Client struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient authenticates against the Bot API.
func NewClient(token string, logger zerolog.Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	return &Client{
		bot: bot,
		// Bot API allows ~30 messages/second overall.
		limiter: rate.NewLimiter(rate.Limit(25), 5),
		logger:  logger,
	}, nil
}

// Username returns the authenticated bot's username without the @ prefix.
func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Updates opens the long-poll update stream. The channel closes once ctx is
// cancelled.
func (c *Client) Updates(ctx context.Context) tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		c.bot.StopReceivingUpdates()
	}()
	return updates
}

// SendMarkdown sends a MarkdownV2 message, optionally replying to another
// message (replyTo 0 sends a plain chat message).
func (c *Client) SendMarkdown(ctx context.Context, chatID int64, replyTo int, text string) (Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.ReplyToMessageID = replyTo
	return c.send(ctx, msg)
}

// SendPlain sends a message without parse mode.
func (c *Client) SendPlain(ctx context.Context, chatID int64, replyTo int, text string) (Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	return c.send(ctx, msg)
}

// EditMarkdown replaces the text of an existing message in place.
func (c *Client) EditMarkdown(ctx context.Context, msg Message, text string) (Message, error) {
	edit := tgbotapi.NewEditMessageText(msg.ChatID, msg.ID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return c.send(ctx, edit)
}

// EditPlain replaces the text of an existing message without parse mode.
func (c *Client) EditPlain(ctx context.Context, msg Message, text string) (Message, error) {
	edit := tgbotapi.NewEditMessageText(msg.ChatID, msg.ID, text)
	return c.send(ctx, edit)
}

// SendPhoto uploads a local photo with a MarkdownV2 caption and one inline
// URL button underneath.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, replyTo int, path, caption, buttonText, buttonURL string) (Message, error) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdownV2
	photo.ReplyToMessageID = replyTo
	if buttonText != "" {
		photo.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(buttonText, buttonURL),
			),
		)
	}
	return c.send(ctx, photo)
}

// Delete removes a message. Telegram refuses deletes of old messages; the
// caller decides whether that matters.
func (c *Client) Delete(ctx context.Context, msg Message) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.bot.Request(tgbotapi.NewDeleteMessage(msg.ChatID, msg.ID))
	if err != nil {
		return fmt.Errorf("telegram: delete message: %w", err)
	}
	return nil
}

// SendTyping shows the typing indicator in a chat. Failures are logged and
// swallowed; the indicator is cosmetic.
func (c *Client) SendTyping(ctx context.Context, chatID int64) {
	if err := c.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := c.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		c.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("telegram: chat action failed")
	}
}

func (c *Client) send(ctx context.Context, cfg tgbotapi.Chattable) (Message, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Message{}, err
	}
	sent, err := c.bot.Send(cfg)
	if err != nil {
		return Message{}, fmt.Errorf("telegram: send: %w", err)
	}
	return Message{ChatID: sent.Chat.ID, ID: sent.MessageID}, nil
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hordebot/internal/admin"
	"hordebot/internal/horde"
)

// Registry maps command names to commands and dispatches chat updates.
type Registry struct {
	commands map[string]Command
	primary  []Command
	trans    Transport
	botName  string
	stats    *admin.Stats
	logger   zerolog.Logger
}

// NewRegistry builds an empty registry. botName filters /cmd@other_bot
// mentions addressed to a different bot.
func NewRegistry(trans Transport, botName string, stats *admin.Stats, logger zerolog.Logger) *Registry {
	return &Registry{
		commands: make(map[string]Command),
		trans:    trans,
		botName:  botName,
		stats:    stats,
		logger:   logger,
	}
}

// Register adds commands under all their names.
func (r *Registry) Register(cmds ...Command) {
	for _, cmd := range cmds {
		r.primary = append(r.primary, cmd)
		for _, name := range cmd.Names() {
			r.commands[name] = cmd
		}
	}
}

// Describe lists "/name — description" lines for every registered command.
func (r *Registry) Describe() []string {
	lines := make([]string, 0, len(r.primary))
	for _, cmd := range r.primary {
		lines = append(lines, fmt.Sprintf("/%s — %s", cmd.Names()[0], cmd.Description()))
	}
	sort.Strings(lines)
	return lines
}

// HandleUpdate dispatches one update. It is safe to call from multiple
// goroutines; each invocation is independent.
func (r *Registry) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	r.stats.UpdateSeen()

	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.From == nil {
		return
	}
	if at := msg.CommandWithAt(); strings.Contains(at, "@") {
		if !strings.EqualFold(at, msg.Command()+"@"+r.botName) {
			return
		}
	}

	cmd, ok := r.commands[msg.Command()]
	if !ok {
		return
	}
	r.stats.CommandRun()

	inv := &Invocation{
		ChatID:       msg.Chat.ID,
		MessageID:    msg.MessageID,
		UserID:       msg.From.ID,
		UserLanguage: msg.From.LanguageCode,
		Transport:    r.trans,
		Logger: r.logger.With().
			Str("invocation", uuid.NewString()[:8]).
			Str("command", msg.Command()).
			Int64("user_id", msg.From.ID).
			Logger(),
	}
	if reply := msg.ReplyToMessage; reply != nil {
		inv.ReplyMessageID = reply.MessageID
		if reply.Text != "" {
			inv.ReplyText = reply.Text
		} else {
			inv.ReplyText = reply.Caption
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			inv.Logger.Error().Any("panic", rec).Msg("bot: command panicked")
			inv.Reply(ctx, "something went wrong.")
		}
	}()

	if err := cmd.Execute(ctx, inv, msg.CommandArguments()); err != nil {
		r.answerError(ctx, inv, err)
	}
}

func (r *Registry) answerError(ctx context.Context, inv *Invocation, err error) {
	switch {
	case errors.Is(err, horde.ErrRateLimited), errors.Is(err, ErrRateLimited):
		inv.Reply(ctx, "you are doing this too often! try again in a few minutes.")
	default:
		var userErr *UserError
		if errors.As(err, &userErr) {
			inv.Reply(ctx, userErr.Message)
			return
		}
		inv.Logger.Error().Err(err).Msg("bot: command failed")
		inv.Reply(ctx, "something went wrong.")
	}
}

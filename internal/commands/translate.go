package commands

import (
	"context"
	"fmt"
	"strings"

	"hordebot/internal/bot"
	"hordebot/internal/translate"
)

// Translate renders text between languages. Up to two leading language
// arguments pick the source and target; with one the source is detected,
// with none the target falls back to the sender's language.
type Translate struct {
	client *translate.Client
}

func NewTranslate(client *translate.Client) *Translate {
	return &Translate{client: client}
}

func (c *Translate) Names() []string {
	return []string{"translate", "tr", "trans"}
}

func (c *Translate) Description() string {
	return "translate text between languages"
}

func (c *Translate) Execute(ctx context.Context, inv *bot.Invocation, args string) error {
	source, target, rest := resolveLanguagePair(inv, args)

	text, _, err := bot.ResolveArgument(inv, bot.ArgGreedyOrReply, rest, "text to translate")
	if err != nil {
		return err
	}

	inv.Transport.SendTyping(ctx, inv.ChatID)

	translation, err := c.client.Translate(ctx, text, source, target)
	if err != nil {
		inv.Logger.Error().Err(err).Msg("translation failed")
		return &bot.UserError{Message: "translation failed, please try again later."}
	}

	_, err = inv.Reply(ctx, fmt.Sprintf("%s ➜ %s\n%s",
		strings.ToUpper(translation.SourceLanguage), strings.ToUpper(target), translation.Text))
	return err
}

// resolveLanguagePair consumes up to two leading language arguments. One
// language names the target; two name source then target.
func resolveLanguagePair(inv *bot.Invocation, args string) (source, target, rest string) {
	first, rest1, ok := translate.MatchLanguage(args)
	if !ok {
		return "", defaultTarget(inv), args
	}
	second, rest2, ok := translate.MatchLanguage(rest1)
	if !ok {
		return "", first, rest1
	}
	return first, second, rest2
}

func defaultTarget(inv *bot.Invocation) string {
	if lang := strings.ToLower(inv.UserLanguage); lang != "" {
		if code, _, ok := translate.MatchLanguage(lang); ok {
			return code
		}
	}
	return "en"
}

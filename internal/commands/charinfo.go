package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"hordebot/internal/bot"
	"hordebot/pkg/textutil"
)

const charinfoMaxLines = 10

// CharInfo lists the Unicode code point of each character in the argument.
type CharInfo struct{}

func NewCharInfo() *CharInfo {
	return &CharInfo{}
}

func (c *CharInfo) Names() []string {
	return []string{"charinfo", "ch"}
}

func (c *CharInfo) Description() string {
	return "show Unicode code points of the given characters"
}

func (c *CharInfo) Execute(ctx context.Context, inv *bot.Invocation, args string) error {
	chars, _, err := bot.ResolveArgument(inv, bot.ArgGreedy, args, "characters to inspect")
	if err != nil {
		return err
	}

	var lines []string
	for _, r := range chars {
		if len(lines) >= charinfoMaxLines {
			lines = append(lines, "…")
			break
		}
		if unicode.IsSpace(r) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, fmt.Sprintf("`%s` `U\\+%04X`",
			textutil.EscapeMarkdown(string(r)), r))
	}

	_, err = inv.ReplyMarkdown(ctx, strings.Join(lines, "\n"))
	return err
}

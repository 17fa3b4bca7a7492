package bot

import (
	"strings"
	"unicode"

	"hordebot/internal/translate"
)

// ArgKind tags the shape of one command argument. The original per-type
// conversion dispatch collapses into these variants plus one resolver.
type ArgKind int

const (
	// ArgWord consumes the first whitespace-delimited token.
	ArgWord ArgKind = iota
	// ArgGreedy consumes the whole remaining argument text.
	ArgGreedy
	// ArgGreedyOrReply consumes the remaining text, falling back to the
	// text of the replied-to message.
	ArgGreedyOrReply
	// ArgLanguage consumes a leading language code or English language
	// name.
	ArgLanguage
)

// ResolveArgument extracts one argument of the given shape, returning its
// value and the unconsumed remainder. A missing required argument comes
// back as a UserError naming what.
func ResolveArgument(inv *Invocation, kind ArgKind, args, what string) (value, rest string, err error) {
	switch kind {
	case ArgWord:
		trimmed := strings.TrimLeftFunc(args, unicode.IsSpace)
		cut := strings.IndexFunc(trimmed, unicode.IsSpace)
		if cut < 0 {
			value, rest = trimmed, ""
		} else {
			value, rest = trimmed[:cut], trimmed[cut:]
		}
		if value == "" {
			return "", args, MissingArgument(what)
		}
		return value, rest, nil

	case ArgGreedy:
		value = strings.TrimSpace(args)
		if value == "" {
			return "", args, MissingArgument(what)
		}
		return value, "", nil

	case ArgGreedyOrReply:
		value = strings.TrimSpace(args)
		if value != "" {
			return value, "", nil
		}
		if inv.ReplyText != "" {
			return inv.ReplyText, "", nil
		}
		return "", args, MissingArgument(what)

	case ArgLanguage:
		code, rest, ok := translate.MatchLanguage(args)
		if !ok {
			return "", args, &UserError{Message: "unknown language code or name."}
		}
		return code, rest, nil
	}
	return "", args, MissingArgument(what)
}

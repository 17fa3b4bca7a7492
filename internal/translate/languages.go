// Package translate resolves language arguments and calls the remote
// translation API.
package translate

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// supportedCodes lists the translation service's language codes. English
// display names come from the CLDR data so the name table cannot drift
// from the codes.
var supportedCodes = []string{
	"af", "am", "ar", "az", "be", "bg", "bn", "bs", "ca", "cs", "cy",
	"da", "de", "el", "en", "eo", "es", "et", "eu", "fa", "fi", "fr",
	"ga", "gl", "gu", "ha", "hi", "hr", "ht", "hu", "hy", "id", "ig",
	"is", "it", "iw", "ja", "ka", "kk", "km", "kn", "ko", "ku", "ky",
	"la", "lb", "lo", "lt", "lv", "mg", "mi", "mk", "ml", "mn", "mr",
	"ms", "mt", "my", "ne", "nl", "no", "pa", "pl", "ps", "pt", "ro",
	"ru", "sd", "si", "sk", "sl", "so", "sq", "sr", "su", "sv", "sw",
	"ta", "te", "tg", "th", "tr", "uk", "ur", "uz", "vi", "xh", "yi",
	"yo", "zu",
}

type entry struct {
	code string
	name string // lowercase English display name
}

var languages = buildLanguages()

func buildLanguages() []entry {
	namer := display.English.Languages()
	entries := make([]entry, 0, len(supportedCodes))
	for _, code := range supportedCodes {
		// "iw" is the translation service's legacy code for Hebrew.
		parseable := code
		if code == "iw" {
			parseable = "he"
		}
		tag, err := language.Parse(parseable)
		if err != nil {
			continue
		}
		entries = append(entries, entry{
			code: code,
			name: strings.ToLower(namer.Name(tag)),
		})
	}
	return entries
}

// MatchLanguage consumes a leading language code or English name from
// args, returning the service code and the unconsumed remainder.
func MatchLanguage(args string) (code, rest string, ok bool) {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" {
		return "", args, false
	}
	lower := strings.ToLower(trimmed)

	for _, lang := range languages {
		for _, prefix := range []string{lang.code, lang.name} {
			if !strings.HasPrefix(lower, prefix) {
				continue
			}
			rest := trimmed[len(prefix):]
			if rest != "" && !strings.HasPrefix(rest, " ") {
				continue
			}
			return lang.code, strings.TrimSpace(rest), true
		}
	}
	return "", args, false
}

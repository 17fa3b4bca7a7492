package textutil

import "strings"

// markdownEscapes is the set of characters that carry meaning in Telegram
// MarkdownV2 and must be backslash-escaped when they appear in user text.
var markdownEscapes = map[rune]bool{
	'\\': true,
	'_':  true,
	'*':  true,
	'[':  true,
	']':  true,
	'(':  true,
	')':  true,
	'~':  true,
	'`':  true,
	'>':  true,
	'#':  true,
	'+':  true,
	'-':  true,
	'=':  true,
	'|':  true,
	'{':  true,
	'}':  true,
	'.':  true,
	'!':  true,
}

// EscapeMarkdown returns text with every MarkdownV2 control character
// backslash-escaped.
func EscapeMarkdown(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, ch := range text {
		if markdownEscapes[ch] {
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}

package textutil

import "testing"

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain text untouched", in: "hello world", want: "hello world"},
		{name: "sentence punctuation", in: "done. enjoy!", want: "done\\. enjoy\\!"},
		{name: "formatting characters", in: "_a_ *b* `c`", want: "\\_a\\_ \\*b\\* \\`c\\`"},
		{name: "link syntax", in: "[x](http://a.b)", want: "\\[x\\]\\(http://a\\.b\\)"},
		{name: "backslash", in: `a\b`, want: `a\\b`},
		{name: "unicode passes through", in: "zażółć…", want: "zażółć…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeMarkdown(tt.in); got != tt.want {
				t.Fatalf("EscapeMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

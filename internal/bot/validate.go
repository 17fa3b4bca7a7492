package bot

import "strings"

const (
	maxPromptChars = 1024
	maxPromptLines = 8
)

// CheckPrompt rejects prompts too long or too tall to submit. The returned
// error, when non-nil, is a UserError suitable for the chat.
func CheckPrompt(prompt string) error {
	if len([]rune(prompt)) > maxPromptChars {
		return &UserError{Message: "this prompt is too long (>1024)."}
	}
	if strings.Count(prompt, "\n")+1 > maxPromptLines {
		return &UserError{Message: "this prompt has too many lines (>8)."}
	}
	return nil
}

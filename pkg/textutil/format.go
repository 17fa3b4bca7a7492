package textutil

import (
	"fmt"
	"strings"
)

// FormatDuration renders a duration in whole seconds as a short human
// string: "42s", "3m 5s", "1h 12m".
func FormatDuration(seconds uint64) string {
	hours := (seconds / 3600) % 60
	minutes := (seconds / 60) % 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// ProgressBar renders a 20-step text progress bar like "[========------------]".
func ProgressBar(current, max uint32) string {
	if max == 0 {
		max = 1
	}
	steps := int(float64(current) / (float64(max) / 20))
	if steps > 20 {
		steps = 20
	}

	var b strings.Builder
	b.Grow(22)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("=", steps))
	b.WriteString(strings.Repeat("-", 20-steps))
	b.WriteByte(']')
	return b.String()
}

// TruncateWithEllipsis shortens s to at most max runes, replacing the tail
// with "…" when it had to cut.
func TruncateWithEllipsis(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

package output

import (
	"fmt"
	"strings"
)

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	level = min(max(level, 1), 6)
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a bold markdown key followed by its value.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("**%s:** %s", key, value)
}

// FormatList returns a markdown bullet list.
func FormatList(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatCodeBlock wraps code in a fenced block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}

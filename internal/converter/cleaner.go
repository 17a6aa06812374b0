package converter

import (
	"regexp"
	"strings"
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Clean normalizes converter output: collapses runs of three or more
// newlines to two, trims surrounding whitespace, and ensures the result ends
// with exactly one newline.
func Clean(content string) string {
	content = excessNewlines.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)
	return content + "\n"
}

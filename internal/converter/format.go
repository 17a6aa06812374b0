// Package converter turns Confluence storage format into Markdown or
// AsciiDoc.
package converter

import "fmt"

// Format selects the conversion back-end.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatAsciiDoc Format = "asciidoc"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMarkdown, FormatAsciiDoc:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (supported: markdown, asciidoc)", s)
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatAsciiDoc {
		return "adoc"
	}
	return "md"
}

// Options control optional conversion behavior.
type Options struct {
	// PreserveAnchors renders anchor macros as inline HTML anchors instead
	// of dropping them.
	PreserveAnchors bool
	// CompactTables suppresses column-width padding in rendered tables.
	CompactTables bool
}

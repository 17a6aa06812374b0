package storage

import (
	"html"
	"regexp"
)

// entityPattern matches named and numeric character references.
var entityPattern = regexp.MustCompile(`&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

// DecodeEntities expands the HTML entity vocabulary that Confluence storage
// uses into Unicode while keeping the result valid XML. The five
// XML-mandatory entities are left untouched, and numeric references that
// denote one of the reserved characters are rewritten to their named form so
// the parser still sees an escaped character.
func DecodeEntities(s string) string {
	return entityPattern.ReplaceAllStringFunc(s, func(ref string) string {
		switch ref {
		case "&lt;", "&gt;", "&amp;", "&quot;", "&apos;":
			return ref
		}

		decoded := html.UnescapeString(ref)
		if decoded == ref {
			// Unrecognized named entity. Leave it for the parser to complain
			// about rather than silently mangling it.
			return ref
		}

		switch decoded {
		case "<":
			return "&lt;"
		case ">":
			return "&gt;"
		case "&":
			return "&amp;"
		case `"`:
			return "&quot;"
		case "'":
			return "&apos;"
		}
		return decoded
	})
}

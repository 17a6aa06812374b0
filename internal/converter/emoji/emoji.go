// Package emoji maps Confluence emoji metadata to Unicode.
package emoji

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// legacyEmoticons maps the fixed set of classic Confluence emoticon names to
// their Unicode equivalents.
var legacyEmoticons = map[string]string{
	"smile":        "🙂",
	"sad":          "🙁",
	"cheeky":       "😛",
	"laugh":        "😀",
	"wink":         "😉",
	"thumbs-up":    "👍",
	"thumbs-down":  "👎",
	"information":  "ℹ️",
	"tick":         "✅",
	"cross":        "❌",
	"warning":      "⚠️",
	"plus":         "➕",
	"minus":        "➖",
	"question":     "❓",
	"light-on":     "💡",
	"light-off":    "🔦",
	"yellow-star":  "⭐",
	"red-star":     "🔴",
	"green-star":   "🟢",
	"blue-star":    "🔵",
	"heart":        "❤️",
	"broken-heart": "💔",
}

// FromHexID converts a Confluence emoji id (one or more hex codepoints
// separated by hyphens or underscores, optionally prefixed with "emoji-" or
// "emoji/") into the corresponding grapheme. Returns false when the id is
// not a valid codepoint sequence.
func FromHexID(id string) (string, bool) {
	id = strings.TrimPrefix(id, "emoji-")
	id = strings.TrimPrefix(id, "emoji/")
	id = strings.ReplaceAll(id, "_", "-")
	if id == "" {
		return "", false
	}

	var b strings.Builder
	for _, part := range strings.Split(id, "-") {
		v, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return "", false
		}
		r := rune(v)
		if !utf8.ValidRune(r) || r == 0 {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// FromName resolves a legacy emoticon name such as "smile" or "thumbs-up".
func FromName(name string) (string, bool) {
	e, ok := legacyEmoticons[name]
	return e, ok
}

// Resolve picks the first usable representation in Confluence's precedence
// order: hex id, fallback text, shortcut, shortname, then the element's own
// text content.
func Resolve(id, fallback, shortcut, shortname, text string) string {
	if id != "" {
		if e, ok := FromHexID(id); ok {
			return e
		}
	}
	if fallback != "" {
		return fallback
	}
	if shortcut != "" {
		return shortcut
	}
	if shortname != "" {
		return shortname
	}
	return text
}

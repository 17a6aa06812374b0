package processor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

var multiSpace = regexp.MustCompile(` {2,}`)

// SanitizeFilename turns a page title into a filesystem-safe name without an
// extension. Letters, digits, hyphens, underscores, and spaces survive; every
// other rune becomes an underscore. The result is idempotent under repeated
// sanitization.
func SanitizeFilename(title string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == ' ' {
			return r
		}
		return '_'
	}, title)

	s := strings.TrimSpace(multiSpace.ReplaceAllString(mapped, " "))
	if strings.Trim(s, "_ ") == "" {
		if made := slug.Make(title); made != "" {
			return made
		}
		return "untitled"
	}
	return s
}

// sanitizeAssetFilename makes an attachment title safe for the filesystem
// while preserving its extension. Only path separators and characters
// rejected by common filesystems are replaced.
func sanitizeAssetFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

// uniqueName returns name, or name suffixed with -1, -2, ... before the
// extension until it no longer collides with used. The chosen name is added
// to used.
func uniqueName(name string, used map[string]struct{}) string {
	candidate := name
	base, ext := splitExtension(name)
	for counter := 1; ; counter++ {
		if _, taken := used[candidate]; !taken {
			used[candidate] = struct{}{}
			return candidate
		}
		if ext == "" {
			candidate = fmt.Sprintf("%s-%d", base, counter)
		} else {
			candidate = fmt.Sprintf("%s-%d.%s", base, counter, ext)
		}
	}
}

func splitExtension(name string) (base, ext string) {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

package storage

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// NamespaceBase is the synthetic namespace URI prefix declared for every
// undeclared prefix found in a storage fragment. Tag matching reconstructs
// the expected URI from this base.
const NamespaceBase = "https://confluence.example/"

// wrapperRoot is the name of the synthetic root element.
const wrapperRoot = "export-root"

var (
	elementPrefixPattern   = regexp.MustCompile(`</?([A-Za-z0-9_-]+):[A-Za-z0-9_-]`)
	attributePrefixPattern = regexp.MustCompile(`[\s"']([A-Za-z0-9_-]+):[A-Za-z0-9_-]+\s*=`)
)

// WrapFragment wraps a storage fragment in a synthetic root element that
// declares every namespace prefix used by element or attribute names, so a
// strict XML parser accepts the snippet. Prefixes are declared in sorted
// order for deterministic output.
func WrapFragment(s string) string {
	prefixes := scanPrefixes(s)

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(wrapperRoot)
	for _, p := range prefixes {
		fmt.Fprintf(&b, " xmlns:%s=%q", p, NamespaceBase+p)
	}
	b.WriteByte('>')
	b.WriteString(s)
	b.WriteString("</")
	b.WriteString(wrapperRoot)
	b.WriteByte('>')
	return b.String()
}

func scanPrefixes(s string) []string {
	seen := make(map[string]struct{})
	for _, m := range elementPrefixPattern.FindAllStringSubmatch(s, -1) {
		seen[m[1]] = struct{}{}
	}
	for _, m := range attributePrefixPattern.FindAllStringSubmatch(s, -1) {
		seen[m[1]] = struct{}{}
	}
	delete(seen, "xmlns")
	delete(seen, "xml")

	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

package converter

import (
	"github.com/okibox/confluence-export/internal/storage"
)

// Convert renders a raw storage-format body in the selected format. The
// result is cleaned and ends with exactly one newline.
func Convert(storageContent string, format Format, opts Options) (string, error) {
	root, err := storage.ParseStorage(storageContent)
	if err != nil {
		return "", err
	}

	var out string
	switch format {
	case FormatAsciiDoc:
		c := &asciidocConverter{opts: opts}
		out = c.convertChildren(root)
	default:
		c := &markdownConverter{opts: opts}
		out = c.convertChildren(root)
	}
	return Clean(out), nil
}

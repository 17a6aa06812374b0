package processor

import (
	"fmt"
	"strings"

	"github.com/okibox/confluence-export/internal/converter"
	"github.com/okibox/confluence-export/internal/storage"
)

// ImageReference is one image embedded in a page body that points at an
// attachment of the same page.
type ImageReference struct {
	Filename string
	Alt      string
}

// ExtractImageReferences walks the storage body and collects every
// ac:image/ri:attachment pair. Images backed by external URLs carry no
// attachment and are not reported.
func ExtractImageReferences(storageContent string) ([]ImageReference, error) {
	root, err := storage.ParseStorage(storageContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse storage content while extracting images: %w", err)
	}

	var refs []ImageReference
	for _, image := range root.FindAll("ac:image") {
		alt := image.AttrOr("ac:alt", "image")
		for _, attachment := range image.ChildElements("ri:attachment") {
			if filename, ok := attachment.Attr("ri:filename"); ok && filename != "" {
				refs = append(refs, ImageReference{Filename: filename, Alt: alt})
			}
		}
	}
	return refs, nil
}

// rewriteLocalLinks replaces references to original asset names with their
// local relative paths. Markdown carries them as `](name)`; AsciiDoc as
// `image::name[` and `link:name[`. The rewrite is idempotent for a fixed
// map because local paths always carry a subdirectory prefix that original
// names never have.
func rewriteLocalLinks(content string, format converter.Format, filenameMap map[string]string) string {
	for original, local := range filenameMap {
		switch format {
		case converter.FormatAsciiDoc:
			content = strings.ReplaceAll(content, "image::"+original+"[", "image::"+local+"[")
			content = strings.ReplaceAll(content, "link:"+original+"[", "link:"+local+"[")
		default:
			content = strings.ReplaceAll(content, "]("+original+")", "]("+local+")")
		}
	}
	return content
}

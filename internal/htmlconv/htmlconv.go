// Package htmlconv converts rendered Confluence HTML to Markdown. It serves
// HTML space exports and copied page source, where only rendered view HTML
// is available instead of the storage format.
package htmlconv

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// Converter wraps an html-to-markdown pipeline.
type Converter struct {
	conv *md.Converter
}

// NewConverter builds a converter with the base and commonmark rule sets.
func NewConverter() *Converter {
	return &Converter{
		conv: md.NewConverter(
			md.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Convert turns an HTML fragment or document into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	out, err := c.conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}
	out = excessNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out) + "\n", nil
}

// ExportPage is the content extracted from one page of a Confluence HTML
// space export.
type ExportPage struct {
	Title string
	Body  string
}

// ExtractExportPage pulls the page title and main content out of a
// Confluence HTML space export document. Export pages wrap the body in
// <div id="main-content"> and the title in <span id="title-text">. A
// document without a main-content div falls back to <body>.
func ExtractExportPage(html string) (*ExportPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	page := &ExportPage{
		Title: strings.TrimSpace(doc.Find("#title-text").First().Text()),
	}
	if page.Title == "" {
		page.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	main := doc.Find("#main-content").First()
	if main.Length() == 0 {
		main = doc.Find("body").First()
	}
	if main.Length() == 0 {
		return nil, fmt.Errorf("document has no main content")
	}

	body, err := goquery.OuterHtml(main)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize main content: %w", err)
	}
	page.Body = body

	return page, nil
}

// ConvertExportPage extracts and converts one HTML export document.
func (c *Converter) ConvertExportPage(html string) (*ExportPage, string, error) {
	page, err := ExtractExportPage(html)
	if err != nil {
		return nil, "", err
	}
	out, err := c.Convert(page.Body)
	if err != nil {
		return nil, "", err
	}
	return page, out, nil
}

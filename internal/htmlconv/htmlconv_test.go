package htmlconv

import (
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	c := NewConverter()

	got, err := c.Convert("<h1>Title</h1><p>Some <strong>bold</strong> text.</p>")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(got, "# Title") {
		t.Errorf("heading missing:\n%s", got)
	}
	if !strings.Contains(got, "**bold**") {
		t.Errorf("bold missing:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Errorf("output should end with exactly one newline: %q", got)
	}
}

func TestExtractExportPage(t *testing.T) {
	html := `<html>
<head><title>Space : Getting Started</title></head>
<body>
  <div id="page">
    <h1 id="title-heading"><span id="title-text"> Getting Started </span></h1>
    <div id="main-content" class="wiki-content">
      <p>Welcome to the space.</p>
    </div>
  </div>
</body>
</html>`

	page, err := ExtractExportPage(html)
	if err != nil {
		t.Fatalf("ExtractExportPage: %v", err)
	}
	if page.Title != "Getting Started" {
		t.Errorf("Title = %q", page.Title)
	}
	if !strings.Contains(page.Body, "Welcome to the space.") {
		t.Errorf("Body = %q", page.Body)
	}
	if strings.Contains(page.Body, "title-heading") {
		t.Errorf("Body should exclude the page chrome:\n%s", page.Body)
	}
}

func TestExtractExportPageFallsBackToBody(t *testing.T) {
	page, err := ExtractExportPage("<html><body><p>bare</p></body></html>")
	if err != nil {
		t.Fatalf("ExtractExportPage: %v", err)
	}
	if !strings.Contains(page.Body, "bare") {
		t.Errorf("Body = %q", page.Body)
	}
}

func TestConvertExportPage(t *testing.T) {
	c := NewConverter()
	html := `<html><body><div id="main-content"><h2>Section</h2><ul><li>one</li><li>two</li></ul></div></body></html>`

	_, out, err := c.ConvertExportPage(html)
	if err != nil {
		t.Fatalf("ConvertExportPage: %v", err)
	}
	if !strings.Contains(out, "## Section") {
		t.Errorf("section heading missing:\n%s", out)
	}
	if !strings.Contains(out, "- one") {
		t.Errorf("list missing:\n%s", out)
	}
}

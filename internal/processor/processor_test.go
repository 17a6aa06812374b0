package processor

import (
	"context"
	"strings"
	"testing"

	gomock "go.uber.org/mock/gomock"

	"github.com/okibox/confluence-export/internal/confluence"
	"github.com/okibox/confluence-export/internal/confluence/mock"
	"github.com/okibox/confluence-export/internal/converter"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain", title: "Getting Started", want: "Getting Started"},
		{name: "slash and colon", title: "API: v1/v2", want: "API_ v1_v2"},
		{name: "keeps hyphen underscore", title: "a-b_c d", want: "a-b_c d"},
		{name: "collapses doubled spaces", title: "a  b", want: "a b"},
		{name: "trims", title: "  padded  ", want: "padded"},
		{name: "unicode letters survive", title: "Überblick", want: "Überblick"},
		{name: "empty title", title: "", want: "untitled"},
		{name: "only punctuation", title: "!!!", want: "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.title)
			if got != tt.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if again := SanitizeFilename(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeFilenameCollapsesLongRuns(t *testing.T) {
	got := SanitizeFilename("a    b")
	if got != "a b" {
		t.Fatalf("got %q, want %q", got, "a b")
	}
}

func TestUniqueName(t *testing.T) {
	used := map[string]struct{}{}
	if got := uniqueName("x.png", used); got != "x.png" {
		t.Fatalf("first = %q", got)
	}
	if got := uniqueName("x.png", used); got != "x-1.png" {
		t.Fatalf("second = %q", got)
	}
	if got := uniqueName("x.png", used); got != "x-2.png" {
		t.Fatalf("third = %q", got)
	}
	if got := uniqueName("noext", used); got != "noext" {
		t.Fatalf("no extension = %q", got)
	}
	if got := uniqueName("noext", used); got != "noext-1" {
		t.Fatalf("no extension dup = %q", got)
	}
}

func TestExtractImageReferences(t *testing.T) {
	content := `<p>intro</p>
<ac:image ac:alt="diagram"><ri:attachment ri:filename="architecture.png" /></ac:image>
<ac:image><ri:attachment ri:filename="chart.png" /></ac:image>
<ac:image><ri:url ri:value="https://cdn.example.com/x.png" /></ac:image>`

	refs, err := ExtractImageReferences(content)
	if err != nil {
		t.Fatalf("ExtractImageReferences: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2 (external URL images excluded)", len(refs))
	}
	if refs[0].Filename != "architecture.png" || refs[0].Alt != "diagram" {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1].Filename != "chart.png" || refs[1].Alt != "image" {
		t.Errorf("refs[1] = %+v (alt should default)", refs[1])
	}
}

func TestRewriteLocalLinks(t *testing.T) {
	content := "![arch](architecture.png)\n\nsee [doc](spec.pdf)\n"
	m := map[string]string{
		"architecture.png": "images/architecture.png",
		"spec.pdf":         "attachments/spec.pdf",
	}

	got := rewriteLocalLinks(content, converter.FormatMarkdown, m)
	if !strings.Contains(got, "![arch](images/architecture.png)") {
		t.Errorf("image link not rewritten:\n%s", got)
	}
	if !strings.Contains(got, "[doc](attachments/spec.pdf)") {
		t.Errorf("attachment link not rewritten:\n%s", got)
	}
	if strings.Contains(got, "](architecture.png)") || strings.Contains(got, "](spec.pdf)") {
		t.Errorf("original reference survived:\n%s", got)
	}

	if again := rewriteLocalLinks(got, converter.FormatMarkdown, m); again != got {
		t.Errorf("rewrite not idempotent:\n%s\nvs\n%s", got, again)
	}
}

func TestRewriteLocalLinksAsciidoc(t *testing.T) {
	content := "image::architecture.png[arch]\n\nlink:spec.pdf[spec]\n"
	m := map[string]string{
		"architecture.png": "images/architecture.png",
		"spec.pdf":         "attachments/spec.pdf",
	}

	got := rewriteLocalLinks(content, converter.FormatAsciiDoc, m)
	if !strings.Contains(got, "image::images/architecture.png[arch]") {
		t.Errorf("image macro not rewritten:\n%s", got)
	}
	if !strings.Contains(got, "link:attachments/spec.pdf[spec]") {
		t.Errorf("link macro not rewritten:\n%s", got)
	}
}

func testPage(title, body string) *confluence.Page {
	return &confluence.Page{
		ID:    "100",
		Title: title,
		Kind:  "page",
		Body:  &confluence.StorageBody{Value: body, Representation: "storage"},
	}
}

func TestProcessNoStorageContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	_, err := Process(context.Background(), api, &confluence.Page{ID: "1", Title: "Empty"}, ProcessOptions{Format: converter.FormatMarkdown})
	if err == nil || !strings.Contains(err.Error(), "has no storage content") {
		t.Fatalf("expected storage content error, got %v", err)
	}
}

func TestProcessConvertOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	p, err := Process(context.Background(), api, testPage("My Page: Intro", "<h1>Title</h1><p>Body</p>"), ProcessOptions{Format: converter.FormatMarkdown})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.Filename != "My Page_ Intro" {
		t.Errorf("Filename = %q", p.Filename)
	}
	if !strings.Contains(p.Content, "# Title") {
		t.Errorf("content not converted:\n%s", p.Content)
	}
	if p.RawStorage != "" {
		t.Errorf("RawStorage should be empty without SaveRaw")
	}
	if len(p.Images) != 0 || len(p.Attachments) != 0 {
		t.Errorf("no assets expected, got %d/%d", len(p.Images), len(p.Attachments))
	}
}

func TestProcessDownloadsImagesAndRewrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	body := `<p>arch</p><ac:image ac:alt="arch"><ri:attachment ri:filename="architecture.png" /></ac:image>`
	index := []confluence.Attachment{
		{ID: "a1", Title: "architecture.png", MediaType: "image/png", DownloadLink: "/download/attachments/100/architecture.png"},
	}
	api.EXPECT().GetAttachments(gomock.Any(), "100").Return(index, nil)
	api.EXPECT().FetchAttachment(gomock.Any(), "/download/attachments/100/architecture.png").Return([]byte{1, 2, 3}, nil)

	p, err := Process(context.Background(), api, testPage("Page", body), ProcessOptions{
		Format:         converter.FormatMarkdown,
		DownloadImages: true,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(p.Images) != 1 {
		t.Fatalf("got %d images", len(p.Images))
	}
	if p.Images[0].RelativePath != "images/architecture.png" {
		t.Errorf("RelativePath = %q", p.Images[0].RelativePath)
	}
	if string(p.Images[0].Bytes) != string([]byte{1, 2, 3}) {
		t.Errorf("bytes = %v", p.Images[0].Bytes)
	}
	if !strings.Contains(p.Content, "![arch](images/architecture.png)") {
		t.Errorf("content not rewritten:\n%s", p.Content)
	}
	if strings.Contains(p.Content, "](architecture.png)") {
		t.Errorf("original reference survived:\n%s", p.Content)
	}
}

func TestProcessMissingImageAttachment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	body := `<ac:image><ri:attachment ri:filename="gone.png" /></ac:image>`
	api.EXPECT().GetAttachments(gomock.Any(), "100").Return(nil, nil)

	_, err := Process(context.Background(), api, testPage("Page", body), ProcessOptions{
		Format:         converter.FormatMarkdown,
		DownloadImages: true,
	})
	if err == nil || !strings.Contains(err.Error(), "attachment not found: gone.png") {
		t.Fatalf("expected attachment-not-found error, got %v", err)
	}
}

func TestProcessAttachmentsSkipDownloadedImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	body := `<ac:image><ri:attachment ri:filename="pic.png" /></ac:image>` +
		`<p><ac:link><ri:attachment ri:filename="spec.pdf" /></ac:link></p>`
	index := []confluence.Attachment{
		{ID: "a1", Title: "pic.png", DownloadLink: "/download/pic.png"},
		{ID: "a2", Title: "spec.pdf", DownloadLink: "/download/spec.pdf"},
	}
	// The index is fetched once and reused by the attachment pass.
	api.EXPECT().GetAttachments(gomock.Any(), "100").Return(index, nil)
	api.EXPECT().FetchAttachment(gomock.Any(), "/download/pic.png").Return([]byte("img"), nil)
	api.EXPECT().FetchAttachment(gomock.Any(), "/download/spec.pdf").Return([]byte("pdf"), nil)

	p, err := Process(context.Background(), api, testPage("Page", body), ProcessOptions{
		Format:              converter.FormatMarkdown,
		DownloadImages:      true,
		DownloadAttachments: true,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(p.Images) != 1 || len(p.Attachments) != 1 {
		t.Fatalf("images/attachments = %d/%d, want 1/1", len(p.Images), len(p.Attachments))
	}
	if p.Attachments[0].RelativePath != "attachments/spec.pdf" {
		t.Errorf("attachment path = %q", p.Attachments[0].RelativePath)
	}
	if !strings.Contains(p.Content, "](attachments/spec.pdf)") {
		t.Errorf("attachment link not rewritten:\n%s", p.Content)
	}

	// Asset paths are unique across the whole page.
	seen := map[string]struct{}{}
	for _, a := range append(append([]AssetData{}, p.Images...), p.Attachments...) {
		if _, dup := seen[a.RelativePath]; dup {
			t.Errorf("duplicate relative path %q", a.RelativePath)
		}
		seen[a.RelativePath] = struct{}{}
	}
}

func TestProcessAttachmentNameCollision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	// Two distinct attachments sanitize to the same local name.
	index := []confluence.Attachment{
		{ID: "a1", Title: "notes?.txt", DownloadLink: "/download/a1"},
		{ID: "a2", Title: "notes*.txt", DownloadLink: "/download/a2"},
	}
	api.EXPECT().GetAttachments(gomock.Any(), "100").Return(index, nil)
	api.EXPECT().FetchAttachment(gomock.Any(), "/download/a1").Return([]byte("one"), nil)
	api.EXPECT().FetchAttachment(gomock.Any(), "/download/a2").Return([]byte("two"), nil)

	p, err := Process(context.Background(), api, testPage("Page", "<p>x</p>"), ProcessOptions{
		Format:              converter.FormatMarkdown,
		DownloadAttachments: true,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(p.Attachments) != 2 {
		t.Fatalf("got %d attachments", len(p.Attachments))
	}
	if p.Attachments[0].RelativePath != "attachments/notes_.txt" {
		t.Errorf("first path = %q", p.Attachments[0].RelativePath)
	}
	if p.Attachments[1].RelativePath != "attachments/notes_-1.txt" {
		t.Errorf("second path = %q", p.Attachments[1].RelativePath)
	}
}

func TestProcessSaveRaw(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock.NewMockAPI(ctrl)

	body := "<p>keep me</p>"
	p, err := Process(context.Background(), api, testPage("Page", body), ProcessOptions{
		Format:  converter.FormatMarkdown,
		SaveRaw: true,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if p.RawStorage != body {
		t.Fatalf("RawStorage = %q, want original body", p.RawStorage)
	}
}

package confluence

import "context"

//go:generate go tool mockgen -source=api.go -destination=mock/api.go -package=mock

// API is the set of Confluence operations the export pipeline depends on.
// The HTTP client implements it; tests substitute a generated mock.
type API interface {
	// GetPage fetches a page by ID with its storage body expanded.
	GetPage(ctx context.Context, pageID string) (*Page, error)

	// GetChildPages lists the direct children of a page in API order.
	GetChildPages(ctx context.Context, pageID string) ([]*Page, error)

	// GetAttachments lists the attachment index of a page.
	GetAttachments(ctx context.Context, pageID string) ([]Attachment, error)

	// FetchAttachment downloads attachment bytes. The URL may be absolute
	// or a path relative to the instance base URL.
	FetchAttachment(ctx context.Context, url string) ([]byte, error)

	// CurrentUser probes authentication and returns the caller's profile.
	CurrentUser(ctx context.Context) (*UserInfo, error)
}

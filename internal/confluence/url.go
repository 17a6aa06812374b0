package confluence

import (
	"fmt"
	"net/url"
	"strings"
)

// URLInfo is the result of parsing a Confluence page URL.
type URLInfo struct {
	BaseURL  string
	PageID   string
	SpaceKey string
}

// ParseURL extracts the base URL, numeric page ID, and optional space key
// from a Confluence page URL. Supported shapes:
//
//	https://example.atlassian.net/wiki/spaces/SPACE/pages/123456/Page+Title
//	https://example.atlassian.net/wiki/pages/123456
//	https://example.atlassian.net/pages/123456
func ParseURL(pageURL string) (URLInfo, error) {
	if pageURL == "" {
		return URLInfo{}, fmt.Errorf("URL is empty")
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return URLInfo{}, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return URLInfo{}, fmt.Errorf("URL %q has no scheme or host", pageURL)
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	pagesIdx := -1
	for i, s := range segments {
		if s == "pages" {
			pagesIdx = i
			break
		}
	}
	if pagesIdx < 0 {
		return URLInfo{}, fmt.Errorf("URL does not contain a 'pages' segment")
	}
	if pagesIdx+1 >= len(segments) {
		return URLInfo{}, fmt.Errorf("URL does not contain a page ID after the 'pages' segment")
	}

	pageID := segments[pagesIdx+1]
	if !isNumeric(pageID) {
		return URLInfo{}, fmt.Errorf("page ID %q is not numeric", pageID)
	}

	spaceKey := ""
	for i, s := range segments {
		if s == "spaces" && i+1 < len(segments) && i+1 < pagesIdx {
			spaceKey = segments[i+1]
			break
		}
	}

	return URLInfo{
		BaseURL:  fmt.Sprintf("%s://%s", u.Scheme, u.Host),
		PageID:   pageID,
		SpaceKey: spaceKey,
	}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

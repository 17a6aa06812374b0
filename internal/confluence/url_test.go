package confluence

import (
	"strings"
	"testing"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantBase string
		wantID   string
		wantKey  string
		wantErr  string
	}{
		{
			name:     "full url with space and title",
			url:      "https://example.atlassian.net/wiki/spaces/TEAM/pages/229483/Getting+Started",
			wantBase: "https://example.atlassian.net",
			wantID:   "229483",
			wantKey:  "TEAM",
		},
		{
			name:     "personal space key",
			url:      "https://example.atlassian.net/wiki/spaces/~someone/pages/123/T",
			wantBase: "https://example.atlassian.net",
			wantID:   "123",
			wantKey:  "~someone",
		},
		{
			name:     "no space segment",
			url:      "https://example.atlassian.net/wiki/pages/123456",
			wantBase: "https://example.atlassian.net",
			wantID:   "123456",
		},
		{
			name:     "without wiki prefix",
			url:      "https://example.atlassian.net/pages/123456",
			wantBase: "https://example.atlassian.net",
			wantID:   "123456",
		},
		{
			name:    "empty",
			url:     "",
			wantErr: "URL is empty",
		},
		{
			name:    "missing pages segment",
			url:     "https://example.atlassian.net/wiki/spaces/TEAM/123456",
			wantErr: "'pages' segment",
		},
		{
			name:    "pages at end",
			url:     "https://example.atlassian.net/wiki/pages",
			wantErr: "page ID after",
		},
		{
			name:    "non numeric id",
			url:     "https://example.atlassian.net/wiki/pages/notanumber",
			wantErr: "not numeric",
		},
		{
			name:    "no host",
			url:     "not-a-url",
			wantErr: "no scheme or host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseURL(tt.url)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.BaseURL != tt.wantBase {
				t.Fatalf("BaseURL = %q, want %q", info.BaseURL, tt.wantBase)
			}
			if info.PageID != tt.wantID {
				t.Fatalf("PageID = %q, want %q", info.PageID, tt.wantID)
			}
			if info.SpaceKey != tt.wantKey {
				t.Fatalf("SpaceKey = %q, want %q", info.SpaceKey, tt.wantKey)
			}
		})
	}
}

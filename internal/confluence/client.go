package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/time/rate"

	"github.com/okibox/confluence-export/internal/version"
)

// ClientOptions tune the HTTP client.
type ClientOptions struct {
	// Timeout applies per request. Zero means DefaultTimeout.
	Timeout time.Duration
	// RateLimit caps requests per second. Zero means DefaultRateLimit.
	RateLimit int
}

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10
)

// Client is the Confluence Cloud REST API client. All requests use HTTP
// basic auth with email:api-token and pass through a shared rate limiter.
type Client struct {
	baseURL    string
	email      string
	apiToken   string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient builds a client for the given instance base URL.
func NewClient(baseURL, email, apiToken string, opts ClientOptions) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if email == "" || apiToken == "" {
		return nil, fmt.Errorf("email and API token are required")
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must be at least 1 request per second")
	}

	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		email:    email,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateLimit),
		userAgent: fmt.Sprintf("confluence-export/%s", version.Short()),
	}, nil
}

type pageQuery struct {
	Expand string `url:"expand"`
}

type listQuery struct {
	Expand string `url:"expand,omitempty"`
	Limit  int    `url:"limit"`
	Start  int    `url:"start"`
}

const childPageLimit = 100

// GetPage retrieves a page by ID with storage body, space, and links
// expanded.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	q, err := query.Values(pageQuery{Expand: "body.storage,body.view,space"})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}
	endpoint := fmt.Sprintf("%s/wiki/rest/api/content/%s?%s", c.baseURL, pageID, q.Encode())

	var page apiPage
	if err := c.getJSON(ctx, endpoint, &page, fmt.Sprintf("get page %s", pageID)); err != nil {
		return nil, err
	}
	return page.toModel(), nil
}

// GetChildPages retrieves every direct child of a page, following
// pagination, in the order the API returns them.
func (c *Client) GetChildPages(ctx context.Context, pageID string) ([]*Page, error) {
	var children []*Page

	for start := 0; ; {
		q, err := query.Values(listQuery{Expand: "body.storage,space", Limit: childPageLimit, Start: start})
		if err != nil {
			return nil, fmt.Errorf("failed to encode query: %w", err)
		}
		endpoint := fmt.Sprintf("%s/wiki/rest/api/content/%s/child/page?%s", c.baseURL, pageID, q.Encode())

		var list apiPageList
		if err := c.getJSON(ctx, endpoint, &list, fmt.Sprintf("get child pages for %s", pageID)); err != nil {
			return nil, err
		}
		for i := range list.Results {
			children = append(children, list.Results[i].toModel())
		}

		limit := list.Limit
		if limit <= 0 {
			limit = childPageLimit
		}
		if len(list.Results) < limit {
			return children, nil
		}
		start += limit
	}
}

// GetAttachments retrieves the attachment index of a page, following
// pagination.
func (c *Client) GetAttachments(ctx context.Context, pageID string) ([]Attachment, error) {
	var attachments []Attachment

	for start := 0; ; {
		q, err := query.Values(listQuery{Limit: childPageLimit, Start: start})
		if err != nil {
			return nil, fmt.Errorf("failed to encode query: %w", err)
		}
		endpoint := fmt.Sprintf("%s/wiki/rest/api/content/%s/child/attachment?%s", c.baseURL, pageID, q.Encode())

		var list apiAttachmentList
		if err := c.getJSON(ctx, endpoint, &list, fmt.Sprintf("get attachments for %s", pageID)); err != nil {
			return nil, err
		}
		for i := range list.Results {
			attachments = append(attachments, list.Results[i].toModel())
		}

		limit := list.Limit
		if limit <= 0 {
			limit = childPageLimit
		}
		if len(list.Results) < limit {
			return attachments, nil
		}
		start += limit
	}
}

// FetchAttachment downloads attachment bytes from an absolute or relative
// download URL.
func (c *Client) FetchAttachment(ctx context.Context, downloadURL string) ([]byte, error) {
	full, err := c.resolveDownloadURL(downloadURL)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, full, "*/*")
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download attachment from %s: HTTP %d", full, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment body: %w", err)
	}
	return data, nil
}

// CurrentUser probes authentication against the current-user endpoint.
func (c *Client) CurrentUser(ctx context.Context) (*UserInfo, error) {
	endpoint := c.baseURL + "/wiki/rest/api/user/current"

	var user apiUser
	if err := c.getJSON(ctx, endpoint, &user, "authenticate"); err != nil {
		return nil, err
	}
	return &UserInfo{
		AccountID:   user.AccountID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PublicName:  user.PublicName,
	}, nil
}

// resolveDownloadURL resolves an attachment download link against the base
// URL, prefixing /wiki when the path does not already carry it.
func (c *Client) resolveDownloadURL(link string) (string, error) {
	if link == "" {
		return "", fmt.Errorf("attachment has no download link")
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link, nil
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	if !strings.HasPrefix(link, "/wiki/") {
		link = "/wiki" + link
	}

	full := c.baseURL + strings.ReplaceAll(link, " ", "%20")
	parsed, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid attachment url %s: %w", full, err)
	}
	return parsed.String(), nil
}

func (c *Client) do(ctx context.Context, endpoint, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	return c.httpClient.Do(req)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any, operation string) error {
	resp, err := c.do(ctx, endpoint, "application/json")
	if err != nil {
		return fmt.Errorf("failed to %s: %w", operation, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return c.errorResponse(resp, operation)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) errorResponse(resp *http.Response, operation string) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to %s: HTTP %d", operation, resp.StatusCode)
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("failed to %s: %s", operation, apiErr.Message)
	}
	return fmt.Errorf("failed to %s: HTTP %d - %s", operation, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Package confluence talks to the Confluence Cloud REST API.
package confluence

// Page is the fetched representation of a Confluence page. Records are
// immutable after fetch.
type Page struct {
	ID     string
	Title  string
	Kind   string
	Status string
	Body   *StorageBody
	Space  *Space
	Links  *PageLinks
}

// StorageBody holds the storage-format payload of a page.
type StorageBody struct {
	Value          string
	Representation string
}

// Space identifies the Confluence space a page lives in.
type Space struct {
	Key  string
	Name string
	Kind string
}

// PageLinks carries useful hyperlinks returned with a page.
type PageLinks struct {
	WebUI string
	Self  string
}

// Attachment is the metadata record for one file attached to a page.
type Attachment struct {
	ID           string
	Title        string
	Kind         string
	MediaType    string
	FileSize     int64
	DownloadLink string
}

// UserInfo describes the authenticated user, as returned by the
// authentication probe.
type UserInfo struct {
	AccountID   string
	Email       string
	DisplayName string
	PublicName  string
}

// PageTree is a page with its fetched descendants. Depth is zero at the
// requested root.
type PageTree struct {
	Page     *Page
	Children []*PageTree
	Depth    int
}

// Count returns the number of pages in the tree.
func (t *PageTree) Count() int {
	n := 1
	for _, c := range t.Children {
		n += c.Count()
	}
	return n
}

// apiPage is the REST wire format for a page.
type apiPage struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Title  string `json:"title"`
	Body   *struct {
		Storage *struct {
			Value          string `json:"value"`
			Representation string `json:"representation"`
		} `json:"storage"`
	} `json:"body"`
	Space *struct {
		Key  string `json:"key"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"space"`
	Links *struct {
		WebUI string `json:"webui"`
		Self  string `json:"self"`
	} `json:"_links"`
}

func (p *apiPage) toModel() *Page {
	page := &Page{
		ID:     p.ID,
		Title:  p.Title,
		Kind:   p.Type,
		Status: p.Status,
	}
	if p.Body != nil && p.Body.Storage != nil {
		page.Body = &StorageBody{
			Value:          p.Body.Storage.Value,
			Representation: p.Body.Storage.Representation,
		}
	}
	if p.Space != nil {
		page.Space = &Space{Key: p.Space.Key, Name: p.Space.Name, Kind: p.Space.Type}
	}
	if p.Links != nil {
		page.Links = &PageLinks{WebUI: p.Links.WebUI, Self: p.Links.Self}
	}
	return page
}

type apiPageList struct {
	Results []apiPage `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`
}

type apiAttachment struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Extensions struct {
		MediaType string `json:"mediaType"`
		FileSize  int64  `json:"fileSize"`
	} `json:"extensions"`
	Links struct {
		Download string `json:"download"`
	} `json:"_links"`
}

func (a *apiAttachment) toModel() Attachment {
	return Attachment{
		ID:           a.ID,
		Title:        a.Title,
		Kind:         a.Type,
		MediaType:    a.Extensions.MediaType,
		FileSize:     a.Extensions.FileSize,
		DownloadLink: a.Links.Download,
	}
}

type apiAttachmentList struct {
	Results []apiAttachment `json:"results"`
	Start   int             `json:"start"`
	Limit   int             `json:"limit"`
	Size    int             `json:"size"`
}

type apiUser struct {
	AccountID   string `json:"accountId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PublicName  string `json:"publicName"`
}

type apiError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Reason     string `json:"reason"`
}

package confluence

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-get
type User struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	UserKey     string `json:"userKey"`
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
type Space struct {
	ID     int    `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}

// SpaceRef is how content points at its space.
type SpaceRef struct {
	Key string `json:"key"`
}

// Ancestor is a page above another one.  Only the ID is needed to place a new page.
type Ancestor struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// Page is a v1 content object of type page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
//
// Which fields are filled in depends on the "expand" parameter of the request; the lookups in this
// package always expand space, version and ancestors.
type Page struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type,omitempty"`
	Status    string     `json:"status,omitempty"` // current, trashed, historical, draft
	Title     string     `json:"title,omitempty"`
	Space     *SpaceRef  `json:"space,omitempty"`
	Version   *Version   `json:"version,omitempty"`
	Ancestors []Ancestor `json:"ancestors,omitempty"`
	Body      *Body      `json:"body,omitempty"`

	Links *struct {
		WebUI string `json:"webui,omitempty"`
	} `json:"_links,omitempty"`
}

// SpaceKey returns the key of the page's space, if it was expanded.
func (p *Page) SpaceKey() string {
	if p.Space == nil {
		return ""
	}
	return p.Space.Key
}

// VersionNumber returns the page's current version, 0 if unknown.
func (p *Page) VersionNumber() int {
	if p.Version == nil {
		return 0
	}
	return p.Version.Number
}

// ParentID is the ID of the page right above p, if ancestors were expanded.
func (p *Page) ParentID() string {
	if len(p.Ancestors) == 0 {
		return ""
	}
	return p.Ancestors[len(p.Ancestors)-1].ID
}

// Summary trims p down to what listings carry.
func (p *Page) Summary() PageSummary {
	return PageSummary{
		ID:       p.ID,
		Title:    p.Title,
		SpaceKey: p.SpaceKey(),
		ParentID: p.ParentID(),
		Version:  p.VersionNumber(),
	}
}

// PageSummary is a page as seen in a listing of children or descendants.
type PageSummary struct {
	ID       string
	Title    string
	SpaceKey string
	ParentID string
	Version  int
}

// Version defines the content version number
// the version number is used for updating content
type Version struct {
	When      string `json:"when,omitempty"`
	Message   string `json:"message,omitempty"`
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit"`
}

// Body holds the storage information
type Body struct {
	Storage *Storage `json:"storage,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

// Attachment is a v1 content object of type attachment:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/
type Attachment struct {
	ID       string   `json:"id,omitempty"`
	Type     string   `json:"type,omitempty"`
	Title    string   `json:"title,omitempty"` // the file name
	Version  *Version `json:"version,omitempty"`
	Metadata struct {
		Comment   string `json:"comment,omitempty"`
		MediaType string `json:"mediaType,omitempty"`
	} `json:"metadata"`
}

// FileName is the name the attachment is known by on its page.
func (a *Attachment) FileName() string { return a.Title }

// Label is a v1 content label:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-labels/
type Label struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
}

type ContentType int

const (
	PageContent ContentType = iota
	BlogContent
	AttachmentContent
)

func (c ContentType) String() string {
	switch c {
	case BlogContent:
		return "blogpost"
	case AttachmentContent:
		return "attachment"
	default:
		return "page"
	}
}

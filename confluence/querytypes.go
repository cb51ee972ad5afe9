package confluence

// SpacesQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
type SpacesQuery struct {
	// Filter the results to spaces based on...
	Keys   []string `url:"spaceKey,omitempty"` // their keys.
	Type   string   `url:"type,omitempty"`     // their types. Valid values: "global" or "personal"
	Status string   `url:"status,omitempty"`   // their status: current, archived.

	Start int `url:"start,omitempty"` // index of the first result, for pagination
	Limit int `url:"limit,omitempty"` // page limit; default 25
}

// ContentQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
type ContentQuery struct {
	Type     ContentType `url:"-"`
	SpaceKey string      `url:"spaceKey,omitempty"`
	Title    string      `url:"title,omitempty"`
	Status   string      `url:"status,omitempty"` // current, trashed, draft, any
	Expand   []string    `url:"expand,omitempty,comma"`

	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"`
}

// GetContentByIDQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
type GetContentByIDQuery struct {
	ID      string   `url:"-"` // ID of the content; required
	Expand  []string `url:"expand,omitempty,comma"`
	Version int      `url:"version,omitempty"` // Allows you to retrieve a previously published version.
}

// ChildrenQuery defines the query parameters for child and descendant listings:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---children-and-descendants/
type ChildrenQuery struct {
	ID     string   `url:"-"` // ID of the parent content; required
	Expand []string `url:"expand,omitempty,comma"`

	Start int `url:"start,omitempty"`
	Limit int `url:"limit,omitempty"`
}

// AttachmentQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/#api-wiki-rest-api-content-id-child-attachment-get
type AttachmentQuery struct {
	PageID    string   `url:"-"`
	Filename  string   `url:"filename,omitempty"`
	MediaType string   `url:"mediaType,omitempty"`
	Expand    []string `url:"expand,omitempty,comma"`
}

// Everything the publisher needs to know about a page.
var pageExpansion = []string{"space", "version", "ancestors"}

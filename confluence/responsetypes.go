package confluence

// Links of a paged v1 response.
type pageLinks struct {
	// Contains the relative URL for the next set of results, using a start query parameter.  This
	// property will not be present if there is no additional data available.
	Next string `json:"next"`
}

// AllSpaces response type
type AllSpaces struct {
	Results []Space   `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`
	Links   pageLinks `json:"_links"`
}

// MultiPageResponse is a page of content search or listing results.
type MultiPageResponse struct {
	Results []Page    `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`
	Links   pageLinks `json:"_links"`
}

// MultiAttachmentResponse is a page of attachments of one piece of content.
type MultiAttachmentResponse struct {
	Results []Attachment `json:"results"`
	Size    int          `json:"size"`
	Links   pageLinks    `json:"_links"`
}

type labelResponse struct {
	Results []Label `json:"results"`
}

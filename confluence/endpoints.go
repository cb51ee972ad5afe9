package confluence

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getContentEndpoint returns the API endpoint to search content:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-get
func (a *API) getContentEndpoint(opts ContentQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("content")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	v.Set("type", opts.Type.String())
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getContentByIDEndpoint returns the API endpoint for one piece of content.  The same URL is used
// to update (PUT) and delete (DELETE) it:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content/#api-wiki-rest-api-content-id-get
func (a *API) getContentByIDEndpoint(opts GetContentByIDQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to get content by ID")
	}

	ep, err := a.resolveEndpoint("content/" + url.PathEscape(opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getChildPagesEndpoint returns the API endpoint to list the direct children of a page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---children-and-descendants/#api-wiki-rest-api-content-id-child-type-get
func (a *API) getChildPagesEndpoint(opts ChildrenQuery) (*url.URL, error) {
	return a.childrenEndpoint("child", opts)
}

// getDescendantPagesEndpoint returns the API endpoint to list every page below a page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---children-and-descendants/#api-wiki-rest-api-content-id-descendant-type-get
func (a *API) getDescendantPagesEndpoint(opts ChildrenQuery) (*url.URL, error) {
	return a.childrenEndpoint("descendant", opts)
}

func (a *API) childrenEndpoint(relation string, opts ChildrenQuery) (*url.URL, error) {
	if opts.ID == "" {
		return nil, fmt.Errorf("confluence: please provide ID to list %s pages", relation)
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("content/%s/%s/page", url.PathEscape(opts.ID), relation))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getAttachmentsEndpoint returns the API endpoint to list or create the attachments of a page:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/
func (a *API) getAttachmentsEndpoint(opts AttachmentQuery) (*url.URL, error) {
	if opts.PageID == "" {
		return nil, fmt.Errorf("confluence: please provide page ID to list attachments")
	}

	ep, err := a.resolveEndpoint(fmt.Sprintf("content/%s/child/attachment", url.PathEscape(opts.PageID)))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getAttachmentDataEndpoint returns the API endpoint to upload new data for an existing
// attachment:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content---attachments/#api-wiki-rest-api-content-id-child-attachment-attachmentid-data-post
func (a *API) getAttachmentDataEndpoint(pageID, attachmentID string) (*url.URL, error) {
	return a.resolveEndpoint(fmt.Sprintf("content/%s/child/attachment/%s/data", url.PathEscape(pageID), url.PathEscape(attachmentID)))
}

// getLabelsEndpoint returns the API endpoint to add labels to content:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-labels/#api-wiki-rest-api-content-id-label-post
func (a *API) getLabelsEndpoint(pageID string) (*url.URL, error) {
	if pageID == "" {
		return nil, fmt.Errorf("confluence: please provide page ID to add labels")
	}
	return a.resolveEndpoint(fmt.Sprintf("content/%s/label", url.PathEscape(pageID)))
}

// getConvertEndpoint returns the API endpoint that turns wiki markup into storage format:
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-content-body/#api-wiki-rest-api-contentbody-convert-to-post
func (a *API) getConvertEndpoint(to Representation) (*url.URL, error) {
	return a.resolveEndpoint("contentbody/convert/" + to.String())
}

// getSpaceEndpoint returns the API endpoint to list spaces
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-space/#api-wiki-rest-api-space-get
func (a *API) getSpaceEndpoint(opts SpacesQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("space")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

// getCurrentUserEndpoint returns the (v1) API endpoint to query current user
// https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-current-get
func (a *API) getCurrentUserEndpoint() (*url.URL, error) {
	return a.resolveEndpoint("user/current")
}

// Do a bit of error checking on endpoint format, and return it relative to the API root.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	baseUri := a.BaseURI

	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("confluence: failed to parse endpoint ref: %w", err)
	}

	return baseUri.ResolveReference(ref), nil
}

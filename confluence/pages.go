package confluence

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Page size for listings.
const listLimit = 50

// GetPage fetches one page by ID.
func (api *API) GetPage(ctx context.Context, id string) (*Page, error) {
	ep, err := api.getContentByIDEndpoint(GetContentByIDQuery{ID: id, Expand: pageExpansion})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	var page Page
	if err := api.getJSON(ctx, ep, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPageByTitle finds the page titled title in the space.  It returns ErrNotFound when there is
// none, and ErrAmbiguous when the space somehow holds several.
func (api *API) GetPageByTitle(ctx context.Context, spaceKey, title string) (*Page, error) {
	ep, err := api.getContentEndpoint(ContentQuery{
		Type:     PageContent,
		SpaceKey: spaceKey,
		Title:    title,
		Expand:   pageExpansion,
	})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get content endpoint: %w", err)
	}

	var pages MultiPageResponse
	if err := api.getJSON(ctx, ep, &pages); err != nil {
		return nil, err
	}

	switch len(pages.Results) {
	case 0:
		return nil, fmt.Errorf("confluence: page %q in space %s: %w", title, spaceKey, ErrNotFound)
	case 1:
		return &pages.Results[0], nil
	}
	return nil, fmt.Errorf("confluence: %d pages titled %q in space %s: %w", len(pages.Results), title, spaceKey, ErrAmbiguous)
}

// FindPageByTitle looks for a direct child of the page parentID titled title.
func (api *API) FindPageByTitle(ctx context.Context, parentID, title string) (*PageSummary, error) {
	var found *PageSummary
	err := api.eachPage(ctx, api.getChildPagesEndpoint, parentID, func(p Page) bool {
		if p.Title == title {
			s := p.Summary()
			if s.ParentID == "" {
				s.ParentID = parentID
			}
			found = &s
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("confluence: no page %q below %s: %w", title, parentID, ErrNotFound)
	}
	return found, nil
}

// GetDescendents lists every page below the page id, at any depth.
func (api *API) GetDescendents(ctx context.Context, id string) ([]PageSummary, error) {
	var pages []PageSummary
	err := api.eachPage(ctx, api.getDescendantPagesEndpoint, id, func(p Page) bool {
		pages = append(pages, p.Summary())
		return true
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// eachPage walks a paged listing until fn returns false or there are no more results.
func (api *API) eachPage(ctx context.Context, endpoint func(ChildrenQuery) (*url.URL, error), id string, fn func(Page) bool) error {
	query := ChildrenQuery{
		ID:     id,
		Expand: []string{"version", "ancestors"},
		Limit:  listLimit,
	}

	for {
		ep, err := endpoint(query)
		if err != nil {
			return fmt.Errorf("confluence: couldn't get listing endpoint: %w", err)
		}

		var pages MultiPageResponse
		if err := api.getJSON(ctx, ep, &pages); err != nil {
			return err
		}

		for _, p := range pages.Results {
			if !fn(p) {
				return nil
			}
		}

		if pages.Links.Next == "" {
			return nil
		}
		next, err := nextStart(pages.Links.Next)
		if err != nil {
			return err
		}
		query.Start = next
	}
}

// nextStart reads the start parameter out of a _links.next URL.
func nextStart(next string) (int, error) {
	q, err := url.Parse(next)
	if err != nil {
		return 0, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
	}
	start, err := strconv.Atoi(q.Query().Get("start"))
	if err != nil {
		return 0, fmt.Errorf("confluence: expected parameter 'start' in %q: %w", next, err)
	}
	return start, nil
}

type newPage struct {
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Space     SpaceRef   `json:"space"`
	Ancestors []Ancestor `json:"ancestors,omitempty"`
	Body      Body       `json:"body"`
}

// CreatePage creates an empty page titled title in the space, below parent.  A nil parent puts the
// page at the top of the space.
func (api *API) CreatePage(ctx context.Context, spaceKey string, parent *Page, title string) (*Page, error) {
	ep, err := api.resolveEndpoint("content")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	in := newPage{
		Type:  PageContent.String(),
		Title: title,
		Space: SpaceRef{Key: spaceKey},
		Body:  Body{Storage: &Storage{Representation: RepresentationStorage.String()}},
	}
	if parent != nil {
		in.Ancestors = []Ancestor{{ID: parent.ID}}
	}

	var page Page
	if err := api.sendJSON(ctx, http.MethodPost, ep, in, &page); err != nil {
		return nil, fmt.Errorf("confluence: couldn't create page %q: %w", title, err)
	}
	return &page, nil
}

type pageUpdate struct {
	ID      string   `json:"id"`
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Space   SpaceRef `json:"space"`
	Version Version  `json:"version"`
	Body    Body     `json:"body"`
}

// StorePage replaces the content of page, as a new version.  Content in wiki markup is converted to
// storage format first, as that is all the REST API accepts.
func (api *API) StorePage(ctx context.Context, page *Page, content Content) (*Page, error) {
	if !content.Representation.Valid() {
		return nil, fmt.Errorf("confluence: page %q: %w", page.Title, ErrRepresentation)
	}

	value := content.Value
	if content.Representation != api.Protocol.Representation() {
		converted, err := api.Convert(ctx, content, api.Protocol.Representation())
		if err != nil {
			return nil, err
		}
		value = converted.Value
	}

	ep, err := api.getContentByIDEndpoint(GetContentByIDQuery{ID: page.ID})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	in := pageUpdate{
		ID:      page.ID,
		Type:    PageContent.String(),
		Title:   page.Title,
		Space:   SpaceRef{Key: page.SpaceKey()},
		Version: Version{Number: page.VersionNumber() + 1, MinorEdit: true},
		Body:    Body{Storage: &Storage{Representation: RepresentationStorage.String(), Value: value}},
	}

	var updated Page
	if err := api.sendJSON(ctx, http.MethodPut, ep, in, &updated); err != nil {
		return nil, fmt.Errorf("confluence: couldn't store page %q: %w", page.Title, err)
	}
	return &updated, nil
}

// Convert has Confluence translate content into another representation.
func (api *API) Convert(ctx context.Context, content Content, to Representation) (Content, error) {
	if !content.Representation.Valid() || !to.Valid() {
		return Content{}, ErrRepresentation
	}
	if content.Representation == to {
		return content, nil
	}

	ep, err := api.getConvertEndpoint(to)
	if err != nil {
		return Content{}, fmt.Errorf("confluence: couldn't resolve endpoint: %w", err)
	}

	in := Storage{Representation: content.Representation.String(), Value: content.Value}
	var out Storage
	if err := api.sendJSON(ctx, http.MethodPost, ep, in, &out); err != nil {
		return Content{}, fmt.Errorf("confluence: couldn't convert %s to %s: %w", content.Representation, to, err)
	}
	return Content{Value: out.Value, Representation: to}, nil
}

// RemovePage deletes the page id.  Confluence takes its descendants along.
func (api *API) RemovePage(ctx context.Context, id string) error {
	ep, err := api.getContentByIDEndpoint(GetContentByIDQuery{ID: id})
	if err != nil {
		return fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	if _, err := api.request(ctx, http.MethodDelete, ep, nil, ""); err != nil {
		return fmt.Errorf("confluence: couldn't remove page %s: %w", id, err)
	}
	return nil
}

// RemovePageByTitle deletes the child of parent titled title, reporting whether there was one.
func (api *API) RemovePageByTitle(ctx context.Context, parent *Page, title string) (bool, error) {
	child, err := api.FindPageByTitle(ctx, parent.ID, title)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := api.RemovePage(ctx, child.ID); err != nil {
		return false, err
	}
	return true, nil
}

// CurrentUser return current user information
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get current user endpoint: %w", err)
	}

	var user User
	if err := api.getJSON(ctx, ep, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

package publish

import (
	"context"
	"errors"
	"io"

	"github.com/toothbrush/confluence-publish/confluence"
)

var (
	// ErrParentNotFound is returned when the page a tree should hang below doesn't exist.
	ErrParentNotFound = errors.New("parent page not found")

	// ErrIdentityConflict is returned when the remote service holds several pages for one (space,
	// title).  It stops the whole run: nothing published after it could be trusted.
	ErrIdentityConflict = errors.New("remote identity conflict")

	// ErrCancelled marks work that was never started because the run was cancelled.
	ErrCancelled = errors.New("cancelled")
)

// Service is the remote wiki as the Publisher uses it.  Lookups by title report
// confluence.ErrNotFound when there is no such page, and confluence.ErrAmbiguous when there are
// several.
type Service interface {
	GetPageByTitle(ctx context.Context, spaceKey, title string) (*confluence.Page, error)
	CreatePage(ctx context.Context, spaceKey string, parent *confluence.Page, title string) (*confluence.Page, error)
	StorePage(ctx context.Context, page *confluence.Page, content confluence.Content) (*confluence.Page, error)
	AddLabels(ctx context.Context, pageID string, labels []string) error

	NewAttachment(name, contentType, comment string) *confluence.Attachment
	GetAttachment(ctx context.Context, pageID, name string, version int) (*confluence.Attachment, error)
	AddAttachment(ctx context.Context, page *confluence.Page, attachment *confluence.Attachment, data io.Reader) (*confluence.Attachment, error)

	RemovePageByTitle(ctx context.Context, parent *confluence.Page, title string) (bool, error)
	RemovePage(ctx context.Context, id string) error
	GetDescendents(ctx context.Context, id string) ([]confluence.PageSummary, error)
}

var _ Service = (*confluence.API)(nil)

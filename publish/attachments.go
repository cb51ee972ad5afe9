package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/toothbrush/confluence-publish/confluence"
	"github.com/toothbrush/confluence-publish/site"
)

// attachAll uploads the attachments of one page concurrently and waits for all of them.  Every
// failure is reported, not only the first.
func (r *run) attachAll(ctx context.Context, page *confluence.Page, attachments []*site.Attachment) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, a := range attachments {
		a := a
		g.Go(func() error {
			if err := r.attach(ctx, page, a); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// attach adds a to page, replacing whatever is stored under the same name.
func (r *run) attach(ctx context.Context, page *confluence.Page, a *site.Attachment) error {
	var existing *confluence.Attachment
	err := r.call(ctx, func(ctx context.Context) (err error) {
		existing, err = r.Service.GetAttachment(ctx, page.ID, a.Name, 0)
		return err
	})
	switch {
	case errors.Is(err, confluence.ErrNotFound):
		existing = r.Service.NewAttachment(a.Name, a.ContentType, a.Comment)
	case err != nil:
		return fmt.Errorf("publish: couldn't look up attachment %q: %w", a.Name, err)
	default:
		existing.Metadata.MediaType = a.ContentType
		existing.Metadata.Comment = a.Comment
	}

	f, err := os.Open(a.Path)
	if err != nil {
		return fmt.Errorf("publish: couldn't open attachment: %w", err)
	}
	defer f.Close()

	err = r.call(ctx, func(ctx context.Context) error {
		_, err := r.Service.AddAttachment(ctx, page, existing, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("publish: couldn't upload attachment %q: %w", a.Name, err)
	}
	r.debugf("%s: attached %s", page.Title, a.Name)
	return nil
}

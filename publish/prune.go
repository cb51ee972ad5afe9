package publish

import (
	"context"
	"fmt"

	"github.com/toothbrush/confluence-publish/confluence"
	"github.com/toothbrush/confluence-publish/site"
)

// prune removes the remote pages below home whose titles are no longer in s.  Only the topmost
// obsolete page of a branch is removed; the service takes its descendants along.
func (r *run) prune(ctx context.Context, s *site.Site, home *confluence.Page) error {
	var descendants []confluence.PageSummary
	err := r.call(ctx, func(ctx context.Context) (err error) {
		descendants, err = r.Service.GetDescendents(ctx, home.ID)
		return err
	})
	if err != nil {
		return fmt.Errorf("publish: couldn't list pages below %q: %w", home.Title, err)
	}

	for _, page := range obsolete(descendants, s.Titles()) {
		r.printf("Pruning: %s\n", page.Title)
		err := r.call(ctx, func(ctx context.Context) error {
			return r.Service.RemovePage(ctx, page.ID)
		})
		if err != nil {
			return fmt.Errorf("publish: couldn't prune %q: %w", page.Title, err)
		}
		r.report.add(Outcome{
			Title:    page.Title,
			SpaceKey: page.SpaceKey,
			PageID:   page.ID,
			Subtree:  home.Title,
			Action:   Removed,
		})
	}
	return nil
}

// obsolete returns the pages not in keep whose parent is kept, in listing order.
func obsolete(pages []confluence.PageSummary, keep map[string]bool) []confluence.PageSummary {
	gone := map[string]bool{}
	for _, page := range pages {
		if !keep[page.Title] {
			gone[page.ID] = true
		}
	}

	var top []confluence.PageSummary
	for _, page := range pages {
		if gone[page.ID] && !gone[page.ParentID] {
			top = append(top, page)
		}
	}
	return top
}

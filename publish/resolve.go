package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/toothbrush/confluence-publish/confluence"
	"github.com/toothbrush/confluence-publish/site"
)

// resolveState is a step of get-or-create for one page.
type resolveState int8

const (
	resolvingParent resolveState = iota
	resolvingSelf
	creating
	done
	failed
)

func (s resolveState) String() string {
	switch s {
	case resolvingParent:
		return "resolving-parent"
	case resolvingSelf:
		return "resolving-self"
	case creating:
		return "creating"
	case done:
		return "done"
	case failed:
		return "failed"
	}
	return fmt.Sprintf("resolveState(%d)", int(s))
}

// resolution walks one page through get-or-create.  parent is the remote page the node hangs below,
// nil for a home page published at the top of its space.
type resolution struct {
	page   *site.Page
	parent *confluence.Page

	state   resolveState
	remote  *confluence.Page
	created bool
	err     error
}

// resolve returns the remote page for p, creating it below parent when it doesn't exist yet.
func (r *run) resolve(ctx context.Context, p *site.Page, parent *confluence.Page) (*confluence.Page, bool, error) {
	res := &resolution{page: p, parent: parent}
	for res.state != done && res.state != failed {
		from := res.state
		switch res.state {
		case resolvingParent:
			r.resolveParent(ctx, res)
		case resolvingSelf:
			r.resolveSelf(ctx, res)
		case creating:
			r.create(ctx, res)
		}
		r.debugf("%s: %s -> %s", p.Title(), from, res.state)
	}
	return res.remote, res.created, res.err
}

func (r *run) resolveParent(ctx context.Context, res *resolution) {
	switch {
	case res.parent != nil:
		res.state = resolvingSelf
	case !res.page.IsRoot():
		res.fail(fmt.Errorf("publish: %q has no remote parent: %w", res.page.Title(), ErrParentNotFound))
	case r.ParentTitle == "":
		res.state = resolvingSelf
	default:
		parent, err := r.lookup(ctx, res.page.SpaceKey, r.ParentTitle)
		switch {
		case errors.Is(err, confluence.ErrNotFound):
			res.fail(fmt.Errorf("publish: %q: %w", r.ParentTitle, ErrParentNotFound))
		case err != nil:
			res.fail(err)
		default:
			res.parent = parent
			res.state = resolvingSelf
		}
	}
}

func (r *run) resolveSelf(ctx context.Context, res *resolution) {
	remote, err := r.lookup(ctx, res.page.SpaceKey, res.page.Title())
	switch {
	case errors.Is(err, confluence.ErrNotFound):
		res.state = creating
	case err != nil:
		res.fail(err)
	default:
		res.remote = remote
		res.state = done
	}
}

type created struct {
	page  *confluence.Page
	isNew bool
}

// create looks the page up again and creates it if still missing.  Both steps run under one flight
// per (space, title), so concurrent callers share a single create.  Only the caller that ran the
// flight reports the page as new.
func (r *run) create(ctx context.Context, res *resolution) {
	key := res.page.SpaceKey + "\x00" + res.page.Title()
	ran := false
	v, err, _ := r.flight.Do(key, func() (any, error) {
		ran = true
		remote, err := r.lookup(ctx, res.page.SpaceKey, res.page.Title())
		if err == nil {
			return created{page: remote}, nil
		}
		if !errors.Is(err, confluence.ErrNotFound) {
			return nil, err
		}

		err = r.call(ctx, func(ctx context.Context) error {
			remote, err = r.Service.CreatePage(ctx, res.page.SpaceKey, res.parent, res.page.Title())
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("publish: couldn't create %q: %w", res.page.Title(), err)
		}
		return created{page: remote, isNew: true}, nil
	})
	if err != nil {
		res.fail(err)
		return
	}

	c := v.(created)
	res.remote, res.created = c.page, c.isNew && ran
	res.state = done
}

// lookup finds a page by (space, title).  Several matches are an identity conflict, which stops the
// run.
func (r *run) lookup(ctx context.Context, spaceKey, title string) (*confluence.Page, error) {
	var page *confluence.Page
	err := r.call(ctx, func(ctx context.Context) (err error) {
		page, err = r.Service.GetPageByTitle(ctx, spaceKey, title)
		return err
	})
	if errors.Is(err, confluence.ErrAmbiguous) {
		err = fmt.Errorf("publish: %s/%q: %w: %w", spaceKey, title, ErrIdentityConflict, err)
		r.cancel(err)
	}
	return page, err
}

func (res *resolution) fail(err error) {
	res.err = err
	res.state = failed
}

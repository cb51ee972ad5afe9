// Package publish mirrors a site's page tree onto Confluence.
//
// Every page is resolved (found or created) before its content, labels and attachments are stored,
// and its children are only started once all of that succeeded.  Sibling subtrees run
// concurrently; a failure stops its own subtree and is reported, without holding up the others.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/toothbrush/confluence-publish/confluence"
	"github.com/toothbrush/confluence-publish/site"
)

// DefaultWorkers bounds the remote calls in flight when Publisher.Workers is unset.
const DefaultWorkers = 8

// A Publisher must not be copied after first use.
type Publisher struct {
	Service Service

	// Workers is the maximum number of remote calls in flight.
	Workers int

	// ParentTitle, when set, is an existing page the home page is published below.
	ParentTitle string

	// Prune removes remote pages below home that are no longer part of the site.
	Prune bool

	Logger *log.Logger
	Debug  bool

	// Progress receives a progress bar when non-nil.
	Progress io.Writer

	// flight serialises creates per (space, title), across runs sharing this Publisher.
	flight singleflight.Group
}

// run is the state of one Publish call.
type run struct {
	*Publisher

	sem    *semaphore.Weighted
	group  errgroup.Group
	cancel context.CancelCauseFunc

	report   *Report
	progress *progress
}

func (p *Publisher) newRun(cancel context.CancelCauseFunc) *run {
	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &run{
		Publisher: p,
		sem:       semaphore.NewWeighted(int64(workers)),
		cancel:    cancel,
		report:    &Report{},
	}
}

// Publish synchronises s with the remote service.  The returned error is non-nil only when the run
// couldn't start or was stopped as a whole; failures of single subtrees are collected in the
// report, see Report.Err.
func (p *Publisher) Publish(ctx context.Context, s *site.Site) (*Report, error) {
	if s == nil || s.Home == nil {
		return nil, fmt.Errorf("publish: %w: no home page", site.ErrInvalidDescriptor)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	r := p.newRun(cancel)
	total := 0
	_ = s.Walk(func(*site.Page) error {
		total++
		return nil
	})
	r.progress = p.newProgress("publishing", total)

	var home *confluence.Page
	r.group.Go(func() error {
		home = r.publishPage(ctx, s.Home, nil, s.Home.Title())
		return nil
	})
	_ = r.group.Wait()
	r.progress.wait()

	if cause := context.Cause(ctx); cause != nil {
		return r.report, fmt.Errorf("publish: run stopped: %w", cause)
	}

	if p.Prune && home != nil {
		if err := r.report.Err(); err != nil {
			p.printf("Not pruning, the run had failures\n")
		} else if err := r.prune(ctx, s, home); err != nil {
			return r.report, err
		}
	}

	return r.report, nil
}

// publishPage publishes one page and schedules its children.  It returns the remote page of a
// successfully published home, so prune knows where to start.
func (r *run) publishPage(ctx context.Context, p *site.Page, parent *confluence.Page, subtree string) *confluence.Page {
	outcome := Outcome{Title: p.Title(), SpaceKey: p.SpaceKey, Subtree: subtree}

	remote, err := r.syncPage(ctx, p, parent, &outcome)
	if err != nil {
		outcome.Action, outcome.Err = Failed, err
		r.record(outcome)
		for _, child := range p.Children {
			r.skip(child, childSubtree(p, child, subtree))
		}
		return nil
	}
	r.record(outcome)

	for _, child := range p.Children {
		child, sub := child, childSubtree(p, child, subtree)
		r.group.Go(func() error {
			r.publishPage(ctx, child, remote, sub)
			return nil
		})
	}
	return remote
}

// syncPage runs resolve, store, label and attach for one page, in that order.
func (r *run) syncPage(ctx context.Context, p *site.Page, parent *confluence.Page, outcome *Outcome) (*confluence.Page, error) {
	var content confluence.Content
	if p.HasContent() {
		var err error
		if content, err = p.Render(); err != nil {
			return nil, err
		}
	}

	remote, isNew, err := r.resolve(ctx, p, parent)
	if err != nil {
		return nil, err
	}
	outcome.PageID = remote.ID
	outcome.Action = Updated
	if isNew {
		outcome.Action = Created
	}

	if p.HasContent() {
		err := r.call(ctx, func(ctx context.Context) error {
			stored, err := r.Service.StorePage(ctx, remote, content)
			if err == nil && stored != nil {
				remote = stored
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("publish: couldn't store %q: %w", p.Title(), err)
		}
	}

	if labels := p.AllLabels(); len(labels) > 0 {
		err := r.call(ctx, func(ctx context.Context) error {
			return r.Service.AddLabels(ctx, remote.ID, labels)
		})
		if err != nil {
			return nil, fmt.Errorf("publish: couldn't label %q: %w", p.Title(), err)
		}
	}

	if err := r.attachAll(ctx, remote, p.Attachments); err != nil {
		return nil, err
	}

	r.printf("Published: %s\n", p.Title())
	return remote, nil
}

// skip records p and everything below it as not attempted.
func (r *run) skip(p *site.Page, subtree string) {
	r.record(Outcome{Title: p.Title(), SpaceKey: p.SpaceKey, Subtree: subtree, Action: Skipped})
	for _, child := range p.Children {
		r.skip(child, subtree)
	}
}

func (r *run) record(o Outcome) {
	r.report.add(o)
	r.progress.increment()
}

func childSubtree(parent, child *site.Page, subtree string) string {
	if parent.IsRoot() {
		return child.Title()
	}
	return subtree
}

// call runs fn against the remote service once a worker slot is free.  Nothing new is started after
// ctx is done, but a call that did start runs to completion: fn gets a context that is never
// cancelled.
func (r *run) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return cancelled(ctx)
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return cancelled(ctx)
	}
	defer r.sem.Release(1)

	if err := ctx.Err(); err != nil {
		return cancelled(ctx)
	}
	return fn(context.WithoutCancel(ctx))
}

func cancelled(ctx context.Context) error {
	return fmt.Errorf("publish: %w: %w", ErrCancelled, context.Cause(ctx))
}

var loggerMu sync.Mutex

func (p *Publisher) printf(format string, args ...any) {
	if p.Logger == nil {
		return
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	p.Logger.Printf(format, args...)
}

func (p *Publisher) debugf(format string, args ...any) {
	if p.Debug {
		p.printf(format+"\n", args...)
	}
}

// Remove deletes the page title, and with it everything below it.  When parentTitle is set the page
// is looked for among that page's children.  It reports whether anything was removed.
func (p *Publisher) Remove(ctx context.Context, spaceKey, parentTitle, title string) (bool, error) {
	r := p.newRun(func(error) {})

	if parentTitle != "" {
		parent, err := r.lookup(ctx, spaceKey, parentTitle)
		if errors.Is(err, confluence.ErrNotFound) {
			return false, fmt.Errorf("publish: %q: %w", parentTitle, ErrParentNotFound)
		}
		if err != nil {
			return false, err
		}

		var removed bool
		err = r.call(ctx, func(ctx context.Context) (err error) {
			removed, err = p.Service.RemovePageByTitle(ctx, parent, title)
			return err
		})
		return removed, err
	}

	page, err := r.lookup(ctx, spaceKey, title)
	if errors.Is(err, confluence.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = r.call(ctx, func(ctx context.Context) error {
		return p.Service.RemovePage(ctx, page.ID)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

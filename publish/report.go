package publish

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/exp/maps"
)

// Action is what happened to one page during a run.
type Action int8

const (
	Created Action = iota
	Updated
	Failed
	Skipped // not attempted, because a page above it failed
	Removed
)

func (a Action) String() string {
	switch a {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Outcome is the result for one page.
type Outcome struct {
	Title    string
	SpaceKey string
	PageID   string

	// Subtree is the title of the top-level page (a child of home) the page sits under, or the
	// home title for home itself.
	Subtree string

	Action Action
	Err    error
}

// Report collects the outcome of every page of a run.  It is safe for concurrent use.
type Report struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *Report) add(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Outcomes returns every outcome, grouped by subtree.
func (r *Report) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Subtree < out[j].Subtree
	})
	return out
}

// Subtrees returns the names of the subtrees seen in the run, sorted.
func (r *Report) Subtrees() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	for _, o := range r.outcomes {
		seen[o.Subtree] = true
	}
	names := maps.Keys(seen)
	sort.Strings(names)
	return names
}

// Subtree returns the outcomes of one subtree, in the order they happened.
func (r *Report) Subtree(name string) []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Outcome
	for _, o := range r.outcomes {
		if o.Subtree == name {
			out = append(out, o)
		}
	}
	return out
}

// Find returns the outcome for a page title.
func (r *Report) Find(title string) (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.outcomes {
		if o.Title == title {
			return o, true
		}
	}
	return Outcome{}, false
}

// Count returns how many pages ended up with action a.
func (r *Report) Count(a Action) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, o := range r.outcomes {
		if o.Action == a {
			n++
		}
	}
	return n
}

// Err joins the failures of the run, nil if every page made it.
func (r *Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes() {
		if o.Action == Failed && o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Title, o.Err))
		}
	}
	return errors.Join(errs...)
}

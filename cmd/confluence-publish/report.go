package main

import (
	"fmt"
	"io"

	"github.com/toothbrush/confluence-publish/internal/termfmt"
	"github.com/toothbrush/confluence-publish/publish"
)

func actionStyle(a publish.Action) termfmt.Style {
	switch a {
	case publish.Created:
		return termfmt.Fg(termfmt.Green)
	case publish.Updated:
		return termfmt.Fg(termfmt.DefaultColor)
	case publish.Failed:
		return termfmt.Bold().Fg(termfmt.Red)
	case publish.Removed:
		return termfmt.Fg(termfmt.Yellow).Strike()
	}
	return termfmt.Fg(termfmt.DarkGrey)
}

// printReport lists every page per top-level subtree, then the totals.
func printReport(w io.Writer, report *publish.Report) {
	for _, subtree := range report.Subtrees() {
		fmt.Fprintf(w, "%s\n", termfmt.Bold().V(subtree))
		for _, o := range report.Subtree(subtree) {
			fmt.Fprintf(w, "  %-8s %s", actionStyle(o.Action).V(o.Action), o.Title)
			if o.Err != nil {
				fmt.Fprintf(w, ": %v", o.Err)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "\n%d created, %d updated, %d failed, %d skipped, %d removed\n",
		report.Count(publish.Created),
		report.Count(publish.Updated),
		report.Count(publish.Failed),
		report.Count(publish.Skipped),
		report.Count(publish.Removed))
}

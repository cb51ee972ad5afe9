/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toothbrush/confluence-publish/publish"
	"github.com/toothbrush/confluence-publish/site"
)

var publishUsage = strings.TrimSpace(`
Publish the site described by --site.  Pages are looked up by title in their space and created when
missing, then their content, labels and attachments are brought up to date.  A failing page doesn't
stop unrelated parts of the site; the command exits non-zero if anything failed.
`)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the site to Confluence",
	Long:  publishUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		debugLog("  Prune: %v, WithVCR: %v\n", Prune, WithVCR)
		return runPublish(cmd.Context())
	},
}

var (
	WithVCR                bool
	Prune                  bool
	ChildrenTitlesPrefixed bool
)

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().BoolVar(&Prune, "prune", false, "remove pages below home that are no longer in the site")
	publishCmd.Flags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to cache responses")
	publishCmd.Flags().BoolVar(&ChildrenTitlesPrefixed, "children-titles-prefixed", true, "prefix page titles with the home page title")
}

// loadSite reads the descriptor and applies the settings that live in the config.
func loadSite() (*site.Site, error) {
	s, err := site.Load(SitePath, site.WithSpaceKey(Space))
	if err != nil {
		return nil, err
	}
	s.ChildrenTitlesPrefixed = ChildrenTitlesPrefixed
	for k, v := range ParsedConfig.Properties {
		s.Properties[k] = v
	}
	return s, s.Validate()
}

func runPublish(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := loadSite()
	if err != nil {
		return fmt.Errorf("confluence-publish: couldn't load site: %w", err)
	}

	api, stopVCR, err := newAPI(WithVCR)
	if err != nil {
		return err
	}
	defer stopVCR()

	// Fail on bad credentials before touching any page.
	currentUser, err := api.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("confluence-publish: couldn't query current user: %w", err)
	}
	log.Printf("Logged in as '%s (%s)'...\n", currentUser.DisplayName, currentUser.AccountID)

	publisher := &publish.Publisher{
		Service:     api,
		Workers:     Workers,
		ParentTitle: ParentPage,
		Prune:       Prune,
		Logger:      log.Default(),
		Debug:       Debug,
		Progress:    os.Stderr,
	}

	log.Printf("Publishing %q to %s...\n", s.Home.Title(), api.Endpoint())
	report, err := publisher.Publish(ctx, s)
	if report != nil {
		printReport(os.Stdout, report)
	}
	if err != nil {
		return err
	}
	return report.Err()
}

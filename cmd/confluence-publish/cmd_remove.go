/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toothbrush/confluence-publish/publish"
)

var removeUsage = strings.TrimSpace(`
Remove a page from Confluence.  Everything below it goes too.  With --parent-page, only a child of
that page is considered.
`)

var RemoveTitle string

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a page and its descendants",
	Long:  removeUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		if RemoveTitle == "" {
			return fmt.Errorf("remove: please provide --title")
		}
		if Space == "" {
			return fmt.Errorf("remove: please provide --space")
		}

		api, stop, err := newAPI(false)
		if err != nil {
			return err
		}
		defer stop()

		publisher := &publish.Publisher{Service: api, Logger: log.Default(), Debug: Debug}
		removed, err := publisher.Remove(cmd.Context(), Space, ParentPage, RemoveTitle)
		if err != nil {
			return fmt.Errorf("remove: %w", err)
		}
		if !removed {
			log.Printf("Nothing to remove, %q not found in %s.\n", RemoveTitle, Space)
			return nil
		}
		log.Printf("Removed %q from %s.\n", RemoveTitle, Space)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().StringVar(&RemoveTitle, "title", "", "title of the page to remove")
}

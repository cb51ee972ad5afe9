/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toothbrush/confluence-publish/site"
	"github.com/toothbrush/confluence-publish/wiki"
)

var convertUsage = strings.TrimSpace(`
Convert a Markdown (or HTML) file to Confluence wiki markup and print it, without talking to
Confluence.  Handy to check what a page will look like before publishing.
`)

var ConvertParentTitle string

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Print the wiki markup for a file",
	Long:  convertUsage,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := convertFile(args[0], convertContext(ConvertParentTitle))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&ConvertParentTitle, "parent-title", "", "title of the home page, used to resolve links to other pages")
}

// convertContext knows the site's pages when --site can be loaded.  Without it every relative link
// target is taken to be a page below parentTitle.
func convertContext(parentTitle string) wiki.Context {
	s, err := site.Load(SitePath, site.WithSpaceKey(Space))
	if err == nil {
		ctx := s.WikiContext()
		if parentTitle != "" {
			ctx.ParentTitle, ctx.IsPage = parentTitle, s.IsPage
		}
		return ctx
	}
	debugLog("  No site for link resolution: %v\n", err)

	if parentTitle == "" {
		return wiki.Context{}
	}
	return wiki.Context{
		ParentTitle: parentTitle,
		IsPage:      func(string) bool { return true },
	}
}

func convertFile(path string, ctx wiki.Context) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("convert: couldn't read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		markdown, err := wiki.FromHTML(string(raw))
		if err != nil {
			return "", fmt.Errorf("convert: %w", err)
		}
		raw = []byte(markdown)
	}

	out, err := wiki.Convert(raw, ctx)
	if err != nil {
		return "", fmt.Errorf("convert: %s: %w", path, err)
	}
	return out, nil
}

package wiki

import (
	"fmt"
	"net/url"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// FromHTML turns an HTML document into markdown, so that it can go through the same conversion as
// a markdown source.  Relative URLs are left relative: they may name a sibling page or an
// attachment, which only Convert knows how to resolve.
func FromHTML(html string) (string, error) {
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			u, err := url.Parse(rawURL)
			if err != nil {
				return rawURL
			}
			// page links are written as file names in HTML sources
			if u.Scheme == "" && u.Host == "" && selec != nil && goquery.NodeName(selec) == "a" {
				if unescaped, err := url.PathUnescape(u.Path); err == nil && u.RawQuery == "" && u.Fragment == "" {
					return unescaped
				}
			}
			return rawURL
		},
	}

	converter := md.NewConverter("", true, opt)
	// Github flavoured Markdown knows about tables and strikethrough
	converter.Use(mdplugin.GitHubFlavored())

	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("wiki: failed to convert HTML to markdown: %w", err)
	}
	return markdown, nil
}

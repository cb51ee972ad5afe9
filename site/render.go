package site

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/toothbrush/confluence-publish/confluence"
	"github.com/toothbrush/confluence-publish/wiki"
)

var templateVariable = regexp.MustCompile(`\$\{([^{}\s]+)\}`)

type sourceFormat int

const (
	formatUnknown sourceFormat = iota
	formatMarkdown
	formatHTML
	formatWiki
	formatStorage
)

// sourceFormats maps a page source's lower-cased extension to its format.
var sourceFormats = map[string]sourceFormat{
	".md":         formatMarkdown,
	".markdown":   formatMarkdown,
	".html":       formatHTML,
	".htm":        formatHTML,
	".wiki":       formatWiki,
	".confluence": formatWiki,
	".xml":        formatStorage,
	".xhtml":      formatStorage,
}

// checkFormat fails with ErrInvalidDescriptor unless source has a known extension.
func checkFormat(name, source string) error {
	ext := strings.ToLower(filepath.Ext(source))
	if _, ok := sourceFormats[ext]; ok {
		return nil
	}
	return fmt.Errorf("site: page %q: unsupported source format %q: %w", name, ext, ErrInvalidDescriptor)
}

// HasContent reports whether the page has a document to store, as opposed to only grouping its
// children.
func (p *Page) HasContent() bool { return p.Source != "" }

// Variables returns the template variables available to the page's source.
func (p *Page) Variables() map[string]string {
	vars := map[string]string{}
	if p.site != nil {
		for k, v := range p.site.Properties {
			vars[k] = v
		}
		vars["site.title"] = p.site.Home.Title()
	}
	vars["page.title"] = p.Title()
	vars["page.space"] = p.SpaceKey
	return vars
}

// Expand replaces every ${name} in content that names a known variable.  Unknown variables are
// left as they are.
func Expand(content string, vars map[string]string) string {
	return templateVariable.ReplaceAllStringFunc(content, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}

// Render reads the page's source and turns it into content for the wiki.  The format follows the
// file extension: markdown and HTML are converted to wiki markup, wiki markup and storage XHTML
// are sent as they are.
func (p *Page) Render() (confluence.Content, error) {
	if !p.HasContent() {
		return confluence.Content{}, fmt.Errorf("site: page %q has no source: %w", p.Name, ErrMissingSource)
	}

	raw, err := os.ReadFile(p.Source)
	if err != nil {
		return confluence.Content{}, fmt.Errorf("site: couldn't read source of page %q: %w", p.Name, err)
	}

	var content confluence.Content
	switch sourceFormats[strings.ToLower(filepath.Ext(p.Source))] {
	case formatMarkdown:
		out, err := wiki.Convert(raw, p.wikiContext())
		if err != nil {
			return confluence.Content{}, fmt.Errorf("site: couldn't convert page %q: %w", p.Name, err)
		}
		content = confluence.NewWikiContent(out)

	case formatHTML:
		markdown, err := wiki.FromHTML(string(raw))
		if err != nil {
			return confluence.Content{}, fmt.Errorf("site: couldn't read HTML of page %q: %w", p.Name, err)
		}
		out, err := wiki.Convert([]byte(markdown), p.wikiContext())
		if err != nil {
			return confluence.Content{}, fmt.Errorf("site: couldn't convert page %q: %w", p.Name, err)
		}
		content = confluence.NewWikiContent(out)

	case formatWiki:
		content = confluence.NewWikiContent(string(raw))

	case formatStorage:
		content = confluence.NewStorageContent(string(raw))

	default:
		return confluence.Content{}, checkFormat(p.Name, p.Source)
	}

	content.Value = Expand(content.Value, p.Variables())
	return content, nil
}

func (p *Page) wikiContext() wiki.Context {
	if p.site == nil {
		return wiki.Context{}
	}
	return p.site.WikiContext()
}

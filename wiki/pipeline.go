// Package wiki converts markdown documents into Confluence wiki markup.
//
// A conversion is a pure function of the source text and a Context: it does no I/O and keeps no
// state between documents.
package wiki

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Context describes where a document sits in its site.
type Context struct {
	// ParentTitle is the title that same-site page links are prefixed with, e.g. "Test" turns a
	// link to "relativepage" into "Test - relativepage".
	ParentTitle string

	// IsPage reports whether a bare link target names another page of the same site.  When nil,
	// no target is treated as a page.
	IsPage func(title string) bool
}

// Converter turns markdown into wiki markup.  It is safe for concurrent use.
type Converter struct {
	md goldmark.Markdown
}

func NewConverter() *Converter {
	return &Converter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

var defaultConverter = NewConverter()

// Convert converts source with a shared Converter.
func Convert(source []byte, ctx Context) (string, error) {
	return defaultConverter.Convert(source, ctx)
}

// Convert parses source and renders it as wiki markup.  A reference link or image whose label is
// never defined fails the whole conversion with a *ReferenceError, as does malformed HTML list
// markup with ErrMalformedList.
func (c *Converter) Convert(source []byte, ctx Context) (string, error) {
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))

	pc := parser.NewContext()
	doc := c.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	if labels := unresolvedReferences(doc, source); len(labels) > 0 {
		return "", &ReferenceError{Labels: labels}
	}

	r := &renderer{
		source: source,
		refs:   NewReferenceIndex(pc, ctx),
	}
	return r.blocks(doc)
}

package wiki

import (
	"path"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

const nbsp = "&nbsp;"

// renderer carries the state of one document conversion.
type renderer struct {
	source []byte
	refs   *ReferenceIndex

	// table cells can't hold raw newlines
	inTable bool
}

// inlines renders every inline child of n.
func (r *renderer) inlines(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		r.inline(&b, c)
	}
	return b.String()
}

func (r *renderer) inline(b *strings.Builder, n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		r.text(b, n)

	case *ast.String:
		b.Write(n.Value)

	case *ast.CodeSpan:
		code := r.plain(n)
		if code == "" {
			return
		}
		b.WriteString("{{")
		b.WriteString(code)
		b.WriteString("}}")

	case *ast.Emphasis:
		marker := "_"
		if n.Level >= 2 {
			marker = "*"
		}
		wrap(b, marker, r.inlines(n))

	case *east.Strikethrough:
		wrap(b, "-", r.inlines(n))

	case *east.TaskCheckBox:
		if n.IsChecked {
			b.WriteString("(/) ")
		} else {
			b.WriteString("( ) ")
		}

	case *ast.Link:
		r.link(b, n)

	case *ast.Image:
		r.image(b, n)

	case *ast.AutoLink:
		target := string(n.URL(r.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(target), "mailto:") {
			target = "mailto:" + target
		}
		b.WriteString("[")
		b.WriteString(target)
		b.WriteString("]")

	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(r.source))
		}

	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			r.inline(b, c)
		}
	}
}

func (r *renderer) text(b *strings.Builder, n *ast.Text) {
	value := string(n.Segment.Value(r.source))
	if n.SoftLineBreak() || n.HardLineBreak() {
		value = strings.TrimRight(value, " \t")
	}

	if n.IsRaw() {
		b.WriteString(value)
	} else {
		b.WriteString(indentation(value))
	}

	switch {
	case n.HardLineBreak() && r.inTable:
		b.WriteString(` \\ `)
	case n.HardLineBreak():
		b.WriteString("\n")
	case n.SoftLineBreak():
		b.WriteString(" ")
	}
}

// indentation keeps whitespace runs visible: every space of a run of two or more, and every
// non-breaking space, becomes the wiki's non-breaking-space entity.
func indentation(s string) string {
	if !strings.Contains(s, "  ") && !strings.ContainsRune(s, '\u00a0') {
		return s
	}

	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\u00a0':
			b.WriteString(nbsp)
		case ' ':
			j := i
			for j < len(runes) && runes[j] == ' ' {
				j++
			}
			if j-i == 1 {
				b.WriteByte(' ')
			} else {
				b.WriteString(strings.Repeat(nbsp, j-i))
			}
			i = j - 1
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// wrap puts marker around s, keeping trailing whitespace outside of the closing marker: the wiki
// does not recognise "*bold *".
func wrap(b *strings.Builder, marker, s string) {
	trimmed := strings.TrimRight(s, " \n")
	if trimmed == "" {
		b.WriteString(s)
		return
	}
	b.WriteString(marker)
	b.WriteString(trimmed)
	b.WriteString(marker)
	b.WriteString(s[len(trimmed):])
}

// plain collects the literal text below n, without any markup.
func (r *renderer) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(r.source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func (r *renderer) link(b *strings.Builder, n *ast.Link) {
	text := strings.TrimSpace(r.inlines(n))
	target := r.refs.ResolveTarget(string(n.Destination))

	if label, ok := referenceLabel(n, r.source); ok {
		if _, defined := r.refs.Lookup(label); defined {
			b.WriteString("[")
			if text != "" {
				b.WriteString(text)
				b.WriteString("|")
			}
			b.WriteString(target)
			b.WriteString("|")
			b.Write(n.Title)
			b.WriteString("]")
			return
		}
	}

	b.WriteString("[")
	if text != "" && text != target {
		b.WriteString(text)
		b.WriteString("|")
	}
	b.WriteString(target)
	b.WriteString("]")
}

// image renders the wiki image macro.  Local images are expected to be attached to the page that
// shows them, so they are anchored on the page title, which is only known at publish time.
func (r *renderer) image(b *strings.Builder, n *ast.Image) {
	alt := strings.TrimSpace(r.plain(n))
	dest := string(n.Destination)

	b.WriteString("!")
	if isAbsolute(dest) {
		b.WriteString(dest)
	} else {
		b.WriteString("${page.title}^")
		b.WriteString(path.Base(dest))
	}
	if alt != "" {
		b.WriteString("|")
		b.WriteString(alt)
	}
	b.WriteString("!")
}

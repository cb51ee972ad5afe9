package wiki

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// Stands in for '<' in list item text while the interim HTML list goes through NormalizeLists.
const ltPlaceholder = "\ue000"

// Opening line of an admonition: the kind in bold, then an optional title.
var admonitionPattern = regexp.MustCompile(`(?i)^(info|note|tip|warning):?$`)

// blocks renders the block children of n, one after the other.
func (r *renderer) blocks(n ast.Node) (string, error) {
	var parts []string
	var kinds []ast.NodeKind
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		s, err := r.block(c)
		if err != nil {
			return "", err
		}
		if s == "" {
			continue
		}
		parts = append(parts, s)
		kinds = append(kinds, c.Kind())
	}

	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			// rules sit on their own line, right next to their neighbours
			if kinds[i] == ast.KindThematicBreak || kinds[i-1] == ast.KindThematicBreak {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(p)
	}
	return b.String(), nil
}

func (r *renderer) block(n ast.Node) (string, error) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		out := r.inlines(n)
		if r.hasListHTML(n) {
			normalized, err := NormalizeLists(out)
			if err != nil {
				return "", err
			}
			out = trimLines(normalized)
		}
		return strings.TrimRight(out, " \n"), nil

	case *ast.Heading:
		return fmt.Sprintf("h%d. %s", n.Level, strings.TrimSpace(r.inlines(n))), nil

	case *ast.ThematicBreak:
		return "----", nil

	case *ast.FencedCodeBlock:
		return r.code(string(n.Language(r.source)), r.lines(n)), nil

	case *ast.CodeBlock:
		return r.code("", r.lines(n)), nil

	case *ast.HTMLBlock:
		var b strings.Builder
		b.WriteString(r.lines(n))
		if n.HasClosure() {
			b.Write(n.ClosureLine.Value(r.source))
		}
		out, err := NormalizeLists(b.String())
		if err != nil {
			return "", err
		}
		return strings.TrimRight(out, "\n"), nil

	case *ast.Blockquote:
		return r.blockquote(n)

	case *ast.List:
		return r.list(n)

	case *east.Table:
		return r.table(n), nil

	default:
		return r.blocks(n)
	}
}

// hasListHTML reports whether list tags were written inline somewhere below n.
func (r *renderer) hasListHTML(n ast.Node) bool {
	found := false
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		raw, ok := c.(*ast.RawHTML)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		for i := 0; i < raw.Segments.Len(); i++ {
			seg := raw.Segments.At(i)
			if listTagPattern.Match(seg.Value(r.source)) {
				found = true
				return ast.WalkStop, nil
			}
		}
		return ast.WalkContinue, nil
	})
	return found
}

// trimLines drops the whitespace a list left dangling at the end of the text before it.
func trimLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// lines returns the raw source lines of a leaf block.
func (r *renderer) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.source))
	}
	return b.String()
}

func (r *renderer) code(language string, body string) string {
	open := "{code}"
	if language != "" {
		open = "{code:" + language + "}"
	}
	return open + "\n" + strings.TrimRight(body, "\n") + "\n{code}"
}

// list renders a markdown list by way of the HTML list it stands for, so nested lists of any mix
// of kinds come out of the List Normalizer.
func (r *renderer) list(n *ast.List) (string, error) {
	var b strings.Builder
	if err := r.listHTML(&b, n); err != nil {
		return "", err
	}

	out, err := NormalizeLists(b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(strings.ReplaceAll(out, ltPlaceholder, "<"), "\n"), nil
}

func (r *renderer) listHTML(b *strings.Builder, n *ast.List) error {
	tag := "ul"
	if n.IsOrdered() {
		tag = "ol"
	}

	b.WriteString("<" + tag + ">")
	for item := n.FirstChild(); item != nil; item = item.NextSibling() {
		b.WriteString("<li>")
		var text []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				b.WriteString(strings.Join(text, "\n"))
				text = nil
				if err := r.listHTML(b, sub); err != nil {
					return err
				}
				continue
			}
			s, err := r.block(c)
			if err != nil {
				return err
			}
			text = append(text, strings.ReplaceAll(s, "<", ltPlaceholder))
		}
		b.WriteString(strings.Join(text, "\n"))
		b.WriteString("</li>")
	}
	b.WriteString("</" + tag + ">")
	return nil
}

func (r *renderer) blockquote(n *ast.Blockquote) (string, error) {
	if out, ok, err := r.admonition(n); ok || err != nil {
		return out, err
	}

	if p, ok := n.FirstChild().(*ast.Paragraph); ok && n.ChildCount() == 1 && !hasLineBreak(p) {
		return "bq. " + strings.TrimSpace(r.inlines(p)), nil
	}

	body, err := r.blocks(n)
	if err != nil {
		return "", err
	}
	return "{quote}\n" + body + "\n{quote}", nil
}

// admonition recognises a quote opening with a bold kind, e.g. "> **info:** About me", and turns
// it into the matching macro.  The rest of that first line is the macro title.
func (r *renderer) admonition(n *ast.Blockquote) (string, bool, error) {
	p, ok := n.FirstChild().(*ast.Paragraph)
	if !ok {
		return "", false, nil
	}
	strong, ok := p.FirstChild().(*ast.Emphasis)
	if !ok || strong.Level != 2 {
		return "", false, nil
	}
	m := admonitionPattern.FindStringSubmatch(strings.TrimSpace(r.plain(strong)))
	if m == nil {
		return "", false, nil
	}
	kind := strings.ToLower(m[1])

	var title, rest strings.Builder
	// the line break may end up inside the bold kind itself
	firstLine := !hasLineBreak(strong)
	for c := strong.NextSibling(); c != nil; c = c.NextSibling() {
		if !firstLine {
			r.inline(&rest, c)
			continue
		}
		if t, ok := c.(*ast.Text); ok && (t.SoftLineBreak() || t.HardLineBreak()) {
			title.Write(t.Segment.Value(r.source))
			firstLine = false
			continue
		}
		r.inline(&title, c)
	}

	var body []string
	if s := strings.TrimSpace(rest.String()); s != "" {
		body = append(body, s)
	}
	for c := p.NextSibling(); c != nil; c = c.NextSibling() {
		s, err := r.block(c)
		if err != nil {
			return "", true, err
		}
		if s != "" {
			body = append(body, s)
		}
	}

	var b strings.Builder
	b.WriteString("{" + kind)
	if t := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(title.String()), ":")); t != "" {
		b.WriteString(":title=" + t)
	}
	b.WriteString("}\n")
	if len(body) > 0 {
		b.WriteString(strings.Join(body, "\n\n"))
		b.WriteString("\n")
	}
	b.WriteString("{" + kind + "}")
	return b.String(), true, nil
}

func hasLineBreak(n ast.Node) bool {
	found := false
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering && (t.SoftLineBreak() || t.HardLineBreak()) {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

func (r *renderer) table(n *east.Table) string {
	r.inTable = true
	defer func() { r.inTable = false }()

	var lines []string
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		sep := "|"
		if _, ok := row.(*east.TableHeader); ok {
			sep = "||"
		}

		var b strings.Builder
		b.WriteString(sep)
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			content := strings.TrimSpace(r.inlines(cell))
			if content == "" {
				content = " "
			}
			b.WriteString(content)
			b.WriteString(sep)
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

package wiki

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// Reference is one `[label]: target "title"` definition of a document.
type Reference struct {
	Label  string
	Target string
	Title  string
}

// ReferenceIndex holds the reference definitions of a single document, wherever they appear in
// it, and knows how to turn a link target into a wiki link target.
type ReferenceIndex struct {
	refs        map[string]Reference
	parentTitle string
	isPage      func(title string) bool
}

// NewReferenceIndex builds an index from the definitions collected while parsing a document.
func NewReferenceIndex(pc parser.Context, ctx Context) *ReferenceIndex {
	idx := &ReferenceIndex{
		refs:        map[string]Reference{},
		parentTitle: ctx.ParentTitle,
		isPage:      ctx.IsPage,
	}
	if pc == nil {
		return idx
	}

	for _, r := range pc.References() {
		ref := Reference{
			Label:  string(r.Label()),
			Target: string(r.Destination()),
			Title:  string(r.Title()),
		}
		idx.refs[normalizeLabel(ref.Label)] = ref
	}
	return idx
}

// Lookup finds the definition for label.  Labels match case-insensitively with whitespace runs
// collapsed.
func (idx *ReferenceIndex) Lookup(label string) (Reference, bool) {
	ref, ok := idx.refs[normalizeLabel(label)]
	return ref, ok
}

// Len returns the number of definitions in the index.
func (idx *ReferenceIndex) Len() int { return len(idx.refs) }

// ResolveTarget maps a link target onto the wiki.  Absolute URLs and anchors are kept as they are;
// a bare title naming another page of the same site is prefixed with the parent title so that it
// matches the page's published title.
func (idx *ReferenceIndex) ResolveTarget(target string) string {
	if isAbsolute(target) || strings.HasPrefix(target, "#") {
		return target
	}
	if idx.isPage != nil && idx.isPage(target) && idx.parentTitle != "" {
		return idx.parentTitle + " - " + target
	}
	return target
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

func isAbsolute(target string) bool {
	if strings.HasPrefix(target, "//") {
		return true
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}

// referenceLabel inspects the source right after the text of a link or image to tell the inline
// form `[text](url)` from the reference forms `[text][label]`, `[label][]` and `[label]`.
func referenceLabel(n ast.Node, source []byte) (string, bool) {
	start, stop := -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			if start < 0 || t.Segment.Start < start {
				start = t.Segment.Start
			}
			if t.Segment.Stop > stop {
				stop = t.Segment.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if stop < 0 {
		return "", false
	}

	closeText := indexByteFrom(source, ']', stop)
	if closeText < 0 {
		return "", false
	}

	next := closeText + 1
	if next < len(source) && source[next] == '(' {
		return "", false
	}

	if next < len(source) && source[next] == '[' {
		closeLabel := indexByteFrom(source, ']', next+1)
		if closeLabel > next+1 {
			return string(source[next+1 : closeLabel]), true
		}
	}

	// collapsed or shortcut: the text is the label
	open := lastIndexByteBefore(source, '[', start)
	if open < 0 {
		return "", false
	}
	return string(source[open+1 : closeText]), true
}

func indexByteFrom(source []byte, c byte, from int) int {
	for i := from; i < len(source); i++ {
		if source[i] == c && (i == 0 || source[i-1] != '\\') {
			return i
		}
	}
	return -1
}

func lastIndexByteBefore(source []byte, c byte, before int) int {
	for i := before - 1; i >= 0; i-- {
		if source[i] == c && (i == 0 || source[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// Literal `[text][label]` left in the text after parsing means the label had no definition.
var danglingReference = regexp.MustCompile(`\[([^\[\]]*)\]\[([^\[\]]*)\]`)

// unresolvedReferences reports the labels of reference links and images that the parser could not
// resolve, in document order.  Code spans are not inspected.
func unresolvedReferences(doc ast.Node, source []byte) []string {
	var labels []string
	seen := map[string]bool{}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock || n.FirstChild() == nil || n.FirstChild().Type() != ast.TypeInline {
			return ast.WalkContinue, nil
		}

		var plain strings.Builder
		_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch c := c.(type) {
			case *ast.CodeSpan:
				plain.WriteByte(' ')
				return ast.WalkSkipChildren, nil
			case *ast.Text:
				plain.Write(c.Segment.Value(source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					plain.WriteByte('\n')
				}
			}
			return ast.WalkContinue, nil
		})

		for _, m := range danglingReference.FindAllStringSubmatch(plain.String(), -1) {
			label := m[2]
			if strings.TrimSpace(label) == "" {
				label = m[1]
			}
			if key := normalizeLabel(label); !seen[key] {
				seen[key] = true
				labels = append(labels, label)
			}
		}
		return ast.WalkSkipChildren, nil
	})

	return labels
}

package wiki

import (
	"fmt"
	"regexp"
	"strings"
)

// Matches the opening and closing forms of <ul>, <ol> and <li>, in any case, with optional
// attributes.  Group 1 is the closing slash, group 2 the tag name.
var listTagPattern = regexp.MustCompile(`(?i)<(/?)(ul|ol|li)(?:\s[^>]*)?>`)

type openTag struct {
	name  string
	start int

	// only used for <li>:
	text    strings.Builder
	emitted bool
}

type listNormalizer struct {
	source string
	out    strings.Builder
	stack  []*openTag

	// lines of the top-level list currently being rewritten
	lines []string
}

// NormalizeLists rewrites every HTML list found in line into wiki list syntax.  Each <li> becomes
// exactly one line prefixed by one marker per enclosing list: '*' for <ul> and '#' for <ol>, so
// the last marker always matches the innermost list.  Text outside of lists is copied verbatim.
//
// A closing tag without a matching open tag, or a list left open at the end of input, is reported
// as ErrMalformedList.
func NormalizeLists(line string) (string, error) {
	n := &listNormalizer{source: line}
	n.out.Grow(len(line))

	prevEnd := 0
	for _, m := range listTagPattern.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]
		closing := m[3] > m[2]
		name := strings.ToLower(line[m[4]:m[5]])

		n.text(line[prevEnd:start])
		prevEnd = end

		var err error
		if closing {
			err = n.close(name, start)
		} else {
			err = n.open(name, start)
		}
		if err != nil {
			return "", err
		}
	}

	if len(n.stack) > 0 {
		top := n.stack[len(n.stack)-1]
		return "", fmt.Errorf("wiki: unterminated <%s> at offset %d: %w", top.name, top.start, ErrMalformedList)
	}

	n.out.WriteString(line[prevEnd:])
	return n.out.String(), nil
}

func (n *listNormalizer) text(s string) {
	if s == "" {
		return
	}
	if len(n.stack) == 0 {
		n.out.WriteString(s)
		return
	}

	top := n.stack[len(n.stack)-1]
	if top.name == "li" {
		top.text.WriteString(s)
		return
	}

	// stray text between list tags
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		n.lines = append(n.lines, trimmed)
	}
}

func (n *listNormalizer) open(name string, start int) error {
	switch name {
	case "ul", "ol":
		if len(n.stack) == 0 {
			if n.out.Len() > 0 && !strings.HasSuffix(n.out.String(), "\n") {
				n.out.WriteString("\n")
			}
		} else if top := n.stack[len(n.stack)-1]; top.name == "li" {
			n.emit(top)
		}
		n.stack = append(n.stack, &openTag{name: name, start: start})

	case "li":
		if len(n.stack) == 0 {
			return fmt.Errorf("wiki: <li> outside of a list at offset %d: %w", start, ErrMalformedList)
		}
		top := n.stack[len(n.stack)-1]
		if top.name == "li" {
			// <li> implicitly closes an unterminated sibling item
			n.emit(top)
			n.stack = n.stack[:len(n.stack)-1]
		}
		n.stack = append(n.stack, &openTag{name: name, start: start})
	}

	return nil
}

func (n *listNormalizer) close(name string, start int) error {
	if len(n.stack) == 0 {
		return fmt.Errorf("wiki: </%s> without matching open tag at offset %d: %w", name, start, ErrMalformedList)
	}

	top := n.stack[len(n.stack)-1]
	switch name {
	case "li":
		if top.name != "li" {
			return fmt.Errorf("wiki: </li> closes <%s> at offset %d: %w", top.name, start, ErrMalformedList)
		}
		n.emit(top)
		n.stack = n.stack[:len(n.stack)-1]

	case "ul", "ol":
		if top.name == "li" {
			n.emit(top)
			n.stack = n.stack[:len(n.stack)-1]
			if len(n.stack) == 0 {
				return fmt.Errorf("wiki: </%s> without matching open tag at offset %d: %w", name, start, ErrMalformedList)
			}
			top = n.stack[len(n.stack)-1]
		}
		if top.name != name {
			return fmt.Errorf("wiki: </%s> closes <%s> opened at offset %d: %w", name, top.name, top.start, ErrMalformedList)
		}
		n.stack = n.stack[:len(n.stack)-1]

		if len(n.stack) == 0 {
			for _, l := range n.lines {
				n.out.WriteString(l)
				n.out.WriteString("\n")
			}
			n.lines = nil
		}
	}

	return nil
}

// emit flushes the pending text of an item.  The first flush carries the list markers, text that
// follows a nested list inside the same item is kept as a plain continuation line.
func (n *listNormalizer) emit(item *openTag) {
	content := strings.TrimSpace(item.text.String())
	item.text.Reset()

	if item.emitted {
		if content != "" {
			n.lines = append(n.lines, content)
		}
		return
	}
	item.emitted = true

	line := n.markers()
	if content != "" {
		line += " " + content
	}
	n.lines = append(n.lines, line)
}

func (n *listNormalizer) markers() string {
	var b strings.Builder
	for _, t := range n.stack {
		switch t.name {
		case "ul":
			b.WriteByte('*')
		case "ol":
			b.WriteByte('#')
		}
	}
	return b.String()
}

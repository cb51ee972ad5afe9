// Package site models the tree of pages to publish, as described by a site descriptor.
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/toothbrush/confluence-publish/wiki"
)

// Site is a page tree rooted at its home page.
type Site struct {
	BaseDir  string
	SpaceKey string
	Labels   []string
	Home     *Page

	// ChildrenTitlesPrefixed publishes every page below home as "<home title> - <name>", which
	// keeps titles unique within a space shared by several sites.
	ChildrenTitlesPrefixed bool

	// Properties are extra template variables, available as ${name} in page sources.
	Properties map[string]string
}

// Page is one node of the tree.
type Page struct {
	Name     string
	SpaceKey string

	// Source is the absolute path of the page's document; empty for a page that only groups its
	// children.
	Source string

	Parent      *Page
	Children    []*Page
	Attachments []*Attachment
	Labels      []string

	site *Site
}

// Attachment is a file attached to a page.
type Attachment struct {
	Name        string
	ContentType string
	Comment     string
	Created     time.Time
	Path        string

	// Page owns the attachment.
	Page *Page
}

// Names with surrounding whitespace can't be told apart on the wiki.
var paddedName = regexp.MustCompile(`^(.*)\s+$|^\s+(.*)`)

// Title is the page's title on the wiki.
func (p *Page) Title() string {
	if p.Parent == nil || p.site == nil || !p.site.ChildrenTitlesPrefixed {
		return p.Name
	}
	return p.site.Home.Name + " - " + p.Name
}

// IsRoot reports whether p is the home page.
func (p *Page) IsRoot() bool { return p.Parent == nil }

// Site returns the site p belongs to.
func (p *Page) Site() *Site { return p.site }

// AllLabels returns the site labels followed by the page's own, without duplicates.
func (p *Page) AllLabels() []string {
	seen := map[string]bool{}
	var labels []string
	var all []string
	if p.site != nil {
		all = append(all, p.site.Labels...)
	}
	all = append(all, p.Labels...)
	for _, l := range all {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		labels = append(labels, l)
	}
	return labels
}

// Walk calls fn for every page, parents before their children.  A non-nil error stops the walk.
func (s *Site) Walk(fn func(*Page) error) error {
	var walk func(*Page) error
	walk = func(p *Page) error {
		if err := fn(p); err != nil {
			return err
		}
		for _, c := range p.Children {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(s.Home)
}

// Titles returns the wiki title of every page in the site.
func (s *Site) Titles() map[string]bool {
	titles := map[string]bool{}
	_ = s.Walk(func(p *Page) error {
		titles[p.Title()] = true
		return nil
	})
	return titles
}

// IsPage reports whether name is the name of a page below home, i.e. whether a bare link target
// in a page source refers to another page of this site.
func (s *Site) IsPage(name string) bool {
	found := false
	_ = s.Walk(func(p *Page) error {
		if !p.IsRoot() && p.Name == name {
			found = true
		}
		return nil
	})
	return found
}

// WikiContext is the conversion context for a page's source.
func (s *Site) WikiContext() wiki.Context {
	ctx := wiki.Context{}
	if s.ChildrenTitlesPrefixed {
		ctx.ParentTitle = s.Home.Name
		ctx.IsPage = s.IsPage
	}
	return ctx
}

func build(d descriptor, baseDir string) (*Site, error) {
	if d.Home == nil {
		return nil, fmt.Errorf("site: no home page: %w", ErrInvalidDescriptor)
	}

	s := &Site{
		BaseDir:                baseDir,
		SpaceKey:               d.SpaceKey,
		Labels:                 d.Labels,
		ChildrenTitlesPrefixed: true,
		Properties:             map[string]string{},
	}

	home, err := s.buildPage(d.Home, nil)
	if err != nil {
		return nil, err
	}
	s.Home = home

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Site) buildPage(n *node, parent *Page) (*Page, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("site: page without a name: %w", ErrInvalidTitle)
	}
	if paddedName.MatchString(n.Name) {
		return nil, fmt.Errorf("site: page name %q has leading or trailing whitespace: %w", n.Name, ErrInvalidTitle)
	}

	p := &Page{
		Name:     n.Name,
		SpaceKey: n.SpaceKey,
		Parent:   parent,
		Labels:   n.Labels,
		site:     s,
	}

	switch {
	case p.SpaceKey != "":
	case parent != nil:
		p.SpaceKey = parent.SpaceKey
	default:
		p.SpaceKey = s.SpaceKey
	}
	if p.SpaceKey == "" {
		return nil, fmt.Errorf("site: no space key for page %q: %w", n.Name, ErrInvalidDescriptor)
	}

	if n.URI != "" {
		p.Source = s.resolve(n.URI)
		if _, err := os.Stat(p.Source); err != nil {
			return nil, fmt.Errorf("site: source of page %q: %v: %w", n.Name, err, ErrMissingSource)
		}
		if err := checkFormat(n.Name, p.Source); err != nil {
			return nil, err
		}
	}

	if err := s.addAttachments(p, n); err != nil {
		return nil, err
	}

	for _, c := range n.Children {
		if c == nil {
			continue
		}
		child, err := s.buildPage(c, p)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, child)
	}

	return p, nil
}

func (s *Site) addAttachments(p *Page, n *node) error {
	seen := map[string]bool{}

	for _, a := range n.Attachments {
		path := s.resolve(a.URI)
		name := a.Name
		if name == "" {
			name = filepath.Base(path)
		}
		att, err := newAttachment(p, name, path)
		if err != nil {
			return err
		}
		if a.ContentType != "" {
			att.ContentType = a.ContentType
		}
		att.Comment = a.Comment
		seen[name] = true
		p.Attachments = append(p.Attachments, att)
	}

	if n.AttachmentsFolder == "" {
		return nil
	}

	dir := s.resolve(n.AttachmentsFolder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("site: attachments of page %q: %v: %w", n.Name, err, ErrMissingSource)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() || seen[e.Name()] {
			continue
		}
		att, err := newAttachment(p, e.Name(), filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		p.Attachments = append(p.Attachments, att)
	}
	return nil
}

func newAttachment(p *Page, name, path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("site: attachment %q of page %q: %v: %w", name, p.Name, err, ErrMissingSource)
	}

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(path); err == nil {
		contentType = mtype.String()
	}

	return &Attachment{
		Name:        name,
		ContentType: contentType,
		Created:     info.ModTime(),
		Path:        path,
		Page:        p,
	}, nil
}

func (s *Site) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.BaseDir, path)
}

// Validate checks that every page has a (space, title) of its own.  It has to run again after
// ChildrenTitlesPrefixed is changed, since titles depend on it.
func (s *Site) Validate() error {
	if s.Home == nil {
		return fmt.Errorf("site: no home page: %w", ErrInvalidDescriptor)
	}

	type key struct{ space, title string }
	seen := map[key]*Page{}

	return s.Walk(func(p *Page) error {
		siblings := map[string]bool{}
		for _, c := range p.Children {
			if siblings[c.Name] {
				return fmt.Errorf("site: page %q has two children named %q: %w", p.Name, c.Name, ErrDuplicateTitle)
			}
			siblings[c.Name] = true
		}

		k := key{p.SpaceKey, p.Title()}
		if other, ok := seen[k]; ok && other != p {
			return fmt.Errorf("site: title %q used twice in space %s: %w", k.title, k.space, ErrDuplicateTitle)
		}
		seen[k] = p
		return nil
	})
}

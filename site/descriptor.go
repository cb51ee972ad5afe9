package site

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// descriptor is the on-disk shape of a site, e.g.
//
//	spaceKey: DOC
//	labels: [generated]
//	home:
//	  name: Home
//	  uri: index.md
//	  children:
//	    - name: Install
//	      uri: install.md
//	      attachments-folder: images/install
type descriptor struct {
	SpaceKey string   `yaml:"spaceKey"`
	Labels   []string `yaml:"labels"`
	Home     *node    `yaml:"home"`
}

type node struct {
	Name              string           `yaml:"name"`
	URI               string           `yaml:"uri"`
	SpaceKey          string           `yaml:"spaceKey"`
	AttachmentsFolder string           `yaml:"attachments-folder"`
	Attachments       []attachmentNode `yaml:"attachments"`
	Labels            []string         `yaml:"labels"`
	Children          []*node          `yaml:"children"`
}

type attachmentNode struct {
	Name        string `yaml:"name"`
	URI         string `yaml:"uri"`
	ContentType string `yaml:"contentType"`
	Comment     string `yaml:"comment"`
}

// Option adjusts a descriptor before the site is built from it.
type Option func(*descriptor)

// WithSpaceKey sets the space of a descriptor that doesn't name one.
func WithSpaceKey(key string) Option {
	return func(d *descriptor) {
		if d.SpaceKey == "" {
			d.SpaceKey = key
		}
	}
}

// Load reads the site descriptor at path.  Relative paths inside it are resolved against the
// directory the descriptor lives in.
func Load(path string, opts ...Option) (*Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("site: couldn't open descriptor: %w", err)
	}
	defer f.Close()

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("site: couldn't resolve base directory: %w", err)
	}

	return Parse(f, baseDir, opts...)
}

// Parse reads a site descriptor from r, resolving relative paths against baseDir.  Unknown keys
// are rejected so that typos don't silently drop pages.
func Parse(r io.Reader, baseDir string, opts ...Option) (*Site, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d descriptor
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("site: empty descriptor: %w", ErrInvalidDescriptor)
		}
		return nil, fmt.Errorf("site: couldn't parse descriptor: %v: %w", err, ErrInvalidDescriptor)
	}

	for _, opt := range opts {
		opt(&d)
	}
	return build(d, baseDir)
}

package confluence

import "fmt"

// Representation names the markup a piece of content is written in.  The zero value is not a
// valid representation, so content can't be sent without saying what it is.
type Representation int

const (
	RepresentationStorage Representation = iota + 1
	RepresentationWiki
)

func (r Representation) String() string {
	switch r {
	case RepresentationStorage:
		return "storage"
	case RepresentationWiki:
		return "wiki"
	default:
		return fmt.Sprintf("Representation(%d)", int(r))
	}
}

// Valid reports whether r is one of the known representations.
func (r Representation) Valid() bool {
	return r == RepresentationStorage || r == RepresentationWiki
}

// Content is page markup together with its representation.
type Content struct {
	Value          string
	Representation Representation
}

func NewStorageContent(value string) Content {
	return Content{Value: value, Representation: RepresentationStorage}
}

func NewWikiContent(value string) Content {
	return Content{Value: value, Representation: RepresentationWiki}
}

package confluence

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no content.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when a lookup that should match one piece of content matches
	// several.
	ErrAmbiguous = errors.New("ambiguous result")

	ErrUnsupportedProtocol = errors.New("unsupported protocol")
	ErrMissingUsername     = errors.New("missing username")
	ErrRepresentation      = errors.New("invalid content representation")
	ErrAuthentication      = errors.New("authentication failed")
)

package wiki

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedList is returned when HTML list tags do not pair up.
	ErrMalformedList = errors.New("malformed list markup")

	// ErrUnresolvedReference is returned when a reference-style link or image names a label that
	// has no definition in the document.
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// ReferenceError lists every reference label of a document that has no definition.
type ReferenceError struct {
	Labels []string
}

func (e *ReferenceError) Error() string {
	quoted := make([]string, 0, len(e.Labels))
	for _, l := range e.Labels {
		quoted = append(quoted, fmt.Sprintf("%q", l))
	}
	return fmt.Sprintf("wiki: %s: %s", ErrUnresolvedReference, strings.Join(quoted, ", "))
}

func (e *ReferenceError) Unwrap() error { return ErrUnresolvedReference }

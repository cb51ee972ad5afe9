package site

import "errors"

var (
	ErrInvalidDescriptor = errors.New("invalid site descriptor")
	ErrDuplicateTitle    = errors.New("duplicate page title")
	ErrInvalidTitle      = errors.New("invalid page name")
	ErrMissingSource     = errors.New("missing source file")
)

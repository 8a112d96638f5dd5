package errors

import "errors"

var (
	ErrNotFound = errors.New("service not found")

	ErrDuplicateSlug = errors.New("service slug already in use")
)

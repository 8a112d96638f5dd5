package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrDuplicateNumber = errors.New("booking number already exists")

	ErrStatusChanged = errors.New("booking status changed concurrently")
)

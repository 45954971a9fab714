package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrMalformed     = errors.New("malformed content")
	ErrInvalid       = errors.New("invalid argument")
	ErrAlreadyExists = errors.New("already exists")
)

// ParseError reports a post whose header could not be decoded.
// It matches ErrMalformed under errors.Is.
type ParseError struct {
	Slug string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Slug, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrMalformed for every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformed
}

package manifest

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldMissing is returned when a required field is absent or null.
	ErrFieldMissing = errors.New("field missing")

	// ErrNotMap is returned when a path traverses a value that is not a mapping.
	ErrNotMap = errors.New("field is not a mapping")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")
)

// FieldError reports a problem with a specific field of a document.
type FieldError struct {
	Path Path
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseError reports a document of a stream that could not be decoded.
// Index is the zero-based position of the document in the stream.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse document %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) hold for any *ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

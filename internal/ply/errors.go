package ply

import (
	"errors"
	"fmt"
)

// Reasons a load can fail. Header failures arrive wrapped in a *HeaderError.
var (
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	ErrMisplacedProperty  = errors.New("property before any element")
	ErrMissingFormat      = errors.New("missing format")
	ErrUnterminatedHeader = errors.New("header not terminated by end_header")

	ErrUnexpectedEOF  = errors.New("unexpected end of data")
	ErrMalformedValue = errors.New("malformed value")
)

// HeaderError reports the header line that made parsing fail. Line is
// 1-based; Line and Text are zero when the failure is not tied to one line
// (missing format, unterminated header).
type HeaderError struct {
	Line int
	Text string
	Err  error
}

func (e *HeaderError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("ply: header: %v", e.Err)
	}
	return fmt.Sprintf("ply: header line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *HeaderError) Unwrap() error { return e.Err }

package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups whose id has no backing file.
var ErrNotFound = errors.New("not found")

// FormatError reports a file missing the structural header delimiters.
// It is non-fatal during bulk loads: the file is skipped with a warning.
type FormatError struct {
	Path   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: invalid file format: %s", e.Path, e.Reason)
}

// SchemaError reports a header that cannot be decoded into the required
// fields (missing id, unknown enum value, undecodable mapping). Dates are
// opaque strings and never trigger it. Non-fatal during bulk loads.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: invalid header: %v", e.Path, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

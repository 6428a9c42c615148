package wdf

import (
	"fmt"

	"github.com/meigma/wdf/internal/file"
	"github.com/meigma/wdf/names"
)

// Sentinel errors.
var (
	// ErrIO is returned when the archive cannot be opened or read, or when
	// the output directory cannot be created. It aborts extraction.
	ErrIO = file.ErrIO

	// ErrFormat is returned when header or table fields are inconsistent
	// with the file size. Open fails with it before any extraction.
	ErrFormat = file.ErrFormat

	// ErrEncoding is returned when a name list line is malformed.
	ErrEncoding = names.ErrEncoding
)

// EntryError records why a single entity was not written.
type EntryError struct {
	UID  uint32
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d (%s): %v", e.UID, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

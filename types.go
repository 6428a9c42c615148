package wdf

import "github.com/meigma/wdf/internal/file"

// Re-export types from internal/file for public API.
type (
	// Header is the fixed 16-byte archive header.
	Header = file.Header

	// Entry is one record of the entity table.
	Entry = file.Entry

	// ByteSource provides random access to archive bytes.
	ByteSource = file.ByteSource
)

// Record sizes of the container layout.
const (
	HeaderSize = file.HeaderSize
	RecordSize = file.RecordSize
)

// NameTable maps entity identifiers to relative paths.
type NameTable interface {
	Lookup(uid uint32) (string, bool)
}

// ResolvedAsset is the output decision for one entity.
type ResolvedAsset struct {
	// Entry is the source record.
	Entry Entry

	// Path is slash-separated and relative to the output directory.
	Path string

	// Decode reports whether the payload is XOR-decoded before writing.
	Decode bool

	// Known reports whether Path came from the name table.
	Known bool
}

// Package testutil builds in-memory WDF archives for tests.
package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/meigma/wdf/internal/file"
)

// Magic and Version are the header values written by Build.
const (
	Magic   = 0x57444650 // "PFDW" little-endian
	Version = 1
)

// Asset is one payload to pack.
type Asset struct {
	UID  uint32
	Data []byte

	// Reserved is written as ReservedSpace. Zero means len(Data).
	Reserved uint32
}

// Build packs assets into an archive image: header, payloads in order,
// then the entity table. It returns the image and the table it wrote.
func Build(assets ...Asset) ([]byte, []file.Entry) {
	buf := make([]byte, file.HeaderSize)
	entries := make([]file.Entry, 0, len(assets))
	for _, a := range assets {
		reserved := a.Reserved
		if reserved == 0 {
			reserved = uint32(len(a.Data)) //nolint:gosec // test data is small
		}
		entries = append(entries, file.Entry{
			UID:           a.UID,
			Offset:        uint32(len(buf)),    //nolint:gosec // test data is small
			Size:          uint32(len(a.Data)), //nolint:gosec // test data is small
			ReservedSpace: reserved,
		})
		buf = append(buf, a.Data...)
	}

	hdr := file.Header{
		Magic:       Magic,
		Version:     Version,
		EntryCount:  uint32(len(entries)), //nolint:gosec // test data is small
		TableOffset: uint32(len(buf)),     //nolint:gosec // test data is small
	}
	for _, e := range entries {
		buf = file.AppendEntry(buf, e)
	}
	copy(buf, file.AppendHeader(nil, hdr))
	return buf, entries
}

// BuildRaw encodes a header followed by payload and table bytes exactly as
// given, for constructing malformed archives.
func BuildRaw(hdr file.Header, body []byte) []byte {
	return append(file.AppendHeader(nil, hdr), body...)
}

// WriteArchive writes Build(assets...) to dir/name and returns the path.
func WriteArchive(t testing.TB, dir, name string, assets ...Asset) string {
	t.Helper()
	data, _ := Build(assets...)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

// ByteSource implements a simple in-memory byte source for tests.
type ByteSource struct {
	data []byte
	err  error
}

// NewByteSource returns a byte source backed by the provided data.
func NewByteSource(data []byte) *ByteSource {
	return &ByteSource{data: data}
}

// FailReads makes every subsequent ReadAt return err.
func (m *ByteSource) FailReads(err error) {
	m.err = err
}

// ReadAt implements io.ReaderAt semantics over the backing slice.
func (m *ByteSource) ReadAt(p []byte, off int64) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if off+int64(n) >= int64(len(m.data)) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the total size of the backing data.
func (m *ByteSource) Size() int64 {
	return int64(len(m.data))
}

// Bytes returns the backing slice for tests that need to mutate data.
func (m *ByteSource) Bytes() []byte {
	return m.data
}

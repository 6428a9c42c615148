package file

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/wdf/internal/sizing"
)

// Reader reads the header, the entity table and payloads from a ByteSource.
//
// All reads are positional, so a Reader never moves a shared file offset.
type Reader struct {
	source ByteSource
}

// NewReader creates a Reader over source.
func NewReader(source ByteSource) *Reader {
	return &Reader{source: source}
}

// Source returns the underlying ByteSource.
func (r *Reader) Source() ByteSource {
	return r.source
}

// ReadHeader reads and decodes the archive header.
func (r *Reader) ReadHeader() (Header, error) {
	size := r.source.Size()
	if size < HeaderSize {
		return Header{}, fmt.Errorf("%w: read header: file size %d is smaller than %d bytes: %w",
			ErrIO, size, HeaderSize, io.ErrUnexpectedEOF)
	}
	var buf [HeaderSize]byte
	if err := r.readFull(buf[:], 0); err != nil {
		return Header{}, fmt.Errorf("%w: read header: %w", ErrIO, err)
	}
	return DecodeHeader(buf[:]), nil
}

// ReadTable reads the entity table described by h, in on-disk order.
//
// The table and every entry range are validated against the source size
// before they are returned; maxEntries bounds h.EntryCount (0 disables).
func (r *Reader) ReadTable(h Header, maxEntries uint32) ([]Entry, error) {
	size := r.source.Size()
	if err := ValidateHeader(h, size, maxEntries); err != nil {
		return nil, err
	}

	section := io.NewSectionReader(r.source, int64(h.TableOffset), int64(h.EntryCount)*RecordSize)
	br := bufio.NewReaderSize(section, 64*RecordSize)

	entries := make([]Entry, 0, h.EntryCount)
	var rec [RecordSize]byte
	for i := range h.EntryCount {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: table truncated at record %d of %d", ErrFormat, i, h.EntryCount)
			}
			return nil, fmt.Errorf("%w: read table record %d: %w", ErrIO, i, err)
		}
		e := DecodeEntry(rec[:])
		if err := ValidateEntry(e, size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadAll reads the full payload of e.
func (r *Reader) ReadAll(e Entry) ([]byte, error) {
	if err := ValidateEntry(e, r.source.Size()); err != nil {
		return nil, err
	}
	n, err := sizing.ToInt(uint64(e.Size), ErrFormat)
	if err != nil {
		return nil, fmt.Errorf("entry %d: %w", e.UID, err)
	}
	buf := make([]byte, n)
	if err := r.readFull(buf, int64(e.Offset)); err != nil {
		return nil, fmt.Errorf("%w: read entry %d: %w", ErrIO, e.UID, err)
	}
	return buf, nil
}

// Peek reads up to n leading bytes of the payload of e. Fewer bytes are
// returned when the payload is shorter than n.
func (r *Reader) Peek(e Entry, n int) ([]byte, error) {
	if err := ValidateEntry(e, r.source.Size()); err != nil {
		return nil, err
	}
	if uint64(n) > uint64(e.Size) {
		n = int(e.Size)
	}
	buf := make([]byte, n)
	if err := r.readFull(buf, int64(e.Offset)); err != nil {
		return nil, fmt.Errorf("%w: peek entry %d: %w", ErrIO, e.UID, err)
	}
	return buf, nil
}

// readFull fills p from off. io.ReaderAt may report io.EOF together with a
// full read at the end of the source; that is not an error here.
func (r *Reader) readFull(p []byte, off int64) error {
	if len(p) == 0 {
		return nil
	}
	n, err := r.source.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("short read (%d of %d bytes): %w", n, len(p), io.ErrUnexpectedEOF)
	}
	return err
}

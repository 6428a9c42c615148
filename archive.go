package wdf

import (
	"io"
	"iter"
	"log/slog"
	"slices"

	"github.com/meigma/wdf/internal/file"
)

// sniffLen is the number of leading payload bytes inspected for an extension.
const sniffLen = 4

// unknownExt is used when a payload does not start with an extension.
const unknownExt = "unknown"

// Archive provides access to the entities of one WDF container.
//
// The header and entity table are parsed once by Open or New and never
// change afterwards. Reads are positional, so an Archive may be read from
// several goroutines.
type Archive struct {
	reader     *file.Reader
	header     Header
	entries    []Entry
	category   string
	maxEntries uint32
	closer     io.Closer // nil when the caller owns the source
	logger     *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// New parses the archive held by source. The caller keeps ownership of
// source; Close on the returned Archive does not close it.
func New(source ByteSource, opts ...Option) (*Archive, error) {
	a := &Archive{
		reader:     file.NewReader(source),
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(a)
	}

	h, err := a.reader.ReadHeader()
	if err != nil {
		return nil, err
	}
	entries, err := a.reader.ReadTable(h, a.maxEntries)
	if err != nil {
		return nil, err
	}
	a.header = h
	a.entries = entries

	a.log().Debug("archive opened",
		"category", a.category,
		"version", h.Version,
		"entries", h.EntryCount,
		"size", source.Size())
	return a, nil
}

// Close releases the file handle opened by Open.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// Header returns the parsed archive header.
func (a *Archive) Header() Header {
	return a.header
}

// EntryCount returns the number of entities in the table.
func (a *Archive) EntryCount() int {
	return len(a.entries)
}

// Entries returns a copy of the entity table in on-disk order.
func (a *Archive) Entries() []Entry {
	return slices.Clone(a.entries)
}

// All returns an iterator over the entity table in on-disk order.
func (a *Archive) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		for i, e := range a.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Category returns the archive category, or "" if none was set.
func (a *Archive) Category() string {
	return a.category
}

// Size returns the archive size in bytes.
func (a *Archive) Size() int64 {
	return a.reader.Source().Size()
}

// ReadEntry reads the raw payload of e.
func (a *Archive) ReadEntry(e Entry) ([]byte, error) {
	return a.reader.ReadAll(e)
}

// Sniff infers a file extension from the first bytes of the payload of e.
//
// Up to four bytes are read and cut at the first zero byte. If what remains
// is non-empty and consists only of ASCII letters, digits and '_', it is
// the extension; otherwise Sniff returns "unknown".
func (a *Archive) Sniff(e Entry) (string, error) {
	head, err := a.reader.Peek(e, sniffLen)
	if err != nil {
		return "", err
	}
	return sniffExtension(head), nil
}

func sniffExtension(head []byte) string {
	for i, b := range head {
		if b == 0 {
			head = head[:i]
			break
		}
	}
	if len(head) == 0 {
		return unknownExt
	}
	for _, b := range head {
		if !isExtByte(b) {
			return unknownExt
		}
	}
	return string(head)
}

func isExtByte(b byte) bool {
	return ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || b == '_'
}

package file

import (
	"fmt"

	"github.com/meigma/wdf/internal/sizing"
)

// ValidateHeader checks that the entity table described by h lies within a
// source of the given size and that the entry count is within maxEntries
// (0 disables the count limit).
func ValidateHeader(h Header, sourceSize int64, maxEntries uint32) error {
	if maxEntries > 0 && h.EntryCount > maxEntries {
		return fmt.Errorf("%w: %d entries exceeds limit of %d", ErrFormat, h.EntryCount, maxEntries)
	}
	tableSize, ok := sizing.MulUint64(uint64(h.EntryCount), RecordSize)
	if !ok || !sizing.InRange(uint64(h.TableOffset), tableSize, sourceSize) {
		return fmt.Errorf("%w: table at offset %d with %d entries exceeds file size %d",
			ErrFormat, h.TableOffset, h.EntryCount, sourceSize)
	}
	return nil
}

// ValidateEntry checks that the payload of e lies within a source of the given size.
func ValidateEntry(e Entry, sourceSize int64) error {
	if !sizing.InRange(uint64(e.Offset), uint64(e.Size), sourceSize) {
		return fmt.Errorf("%w: entry %d range [%d, %d) exceeds file size %d",
			ErrFormat, e.UID, e.Offset, e.End(), sourceSize)
	}
	return nil
}

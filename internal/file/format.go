// Package file decodes the WDF container layout and reads entity payloads.
//
// A container is a 16-byte header followed, at an arbitrary offset, by a
// flat table of 16-byte entity records. All integers are little-endian.
// Payloads are stored uncompressed anywhere in the file.
package file

import (
	"encoding/binary"
	"errors"
	"io"
)

// Fixed record sizes.
const (
	HeaderSize = 16
	RecordSize = 16
)

// Sentinel errors.
var (
	// ErrFormat is returned when header or table fields are inconsistent
	// with the size of the source.
	ErrFormat = errors.New("wdf: malformed archive")

	// ErrIO is returned when the source cannot be read.
	ErrIO = errors.New("wdf: i/o error")
)

// ByteSource provides random access to archive bytes.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// Header is the fixed archive header.
type Header struct {
	Magic       uint32
	Version     uint32
	EntryCount  uint32
	TableOffset uint32
}

// Entry is one record of the entity table.
type Entry struct {
	// UID is the build-time identifier of the asset.
	UID uint32

	// Offset is the byte offset of the payload in the archive.
	Offset uint32

	// Size is the payload length in bytes.
	Size uint32

	// ReservedSpace is the space the packer set aside for the payload.
	// It is carried for fidelity only.
	ReservedSpace uint32
}

// End returns the offset one past the last payload byte.
func (e Entry) End() uint64 {
	return uint64(e.Offset) + uint64(e.Size)
}

// DecodeHeader decodes a header from the first HeaderSize bytes of b.
func DecodeHeader(b []byte) Header {
	_ = b[HeaderSize-1]
	return Header{
		Magic:       binary.LittleEndian.Uint32(b[0:4]),
		Version:     binary.LittleEndian.Uint32(b[4:8]),
		EntryCount:  binary.LittleEndian.Uint32(b[8:12]),
		TableOffset: binary.LittleEndian.Uint32(b[12:16]),
	}
}

// AppendHeader appends the encoded header to b.
func AppendHeader(b []byte, h Header) []byte {
	b = binary.LittleEndian.AppendUint32(b, h.Magic)
	b = binary.LittleEndian.AppendUint32(b, h.Version)
	b = binary.LittleEndian.AppendUint32(b, h.EntryCount)
	return binary.LittleEndian.AppendUint32(b, h.TableOffset)
}

// DecodeEntry decodes a record from the first RecordSize bytes of b.
func DecodeEntry(b []byte) Entry {
	_ = b[RecordSize-1]
	return Entry{
		UID:           binary.LittleEndian.Uint32(b[0:4]),
		Offset:        binary.LittleEndian.Uint32(b[4:8]),
		Size:          binary.LittleEndian.Uint32(b[8:12]),
		ReservedSpace: binary.LittleEndian.Uint32(b[12:16]),
	}
}

// AppendEntry appends the encoded record to b.
func AppendEntry(b []byte, e Entry) []byte {
	b = binary.LittleEndian.AppendUint32(b, e.UID)
	b = binary.LittleEndian.AppendUint32(b, e.Offset)
	b = binary.LittleEndian.AppendUint32(b, e.Size)
	return binary.LittleEndian.AppendUint32(b, e.ReservedSpace)
}

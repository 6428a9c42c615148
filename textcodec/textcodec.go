// Package textcodec removes the XOR obfuscation applied to text assets
// (scripts, XML, INI files) when they were packed.
package textcodec

// KeySize is the length of the XOR key.
const KeySize = 16

var key = [KeySize]byte{
	0xc4, 0x6f, 0xd5, 0x84, 0x8b, 0xc0, 0x43, 0xa8,
	0x90, 0x51, 0x60, 0xcf, 0xa7, 0x62, 0xa4, 0x8d,
}

// Key returns a copy of the XOR key.
func Key() [KeySize]byte {
	return key
}

// Decode XORs buf in place with the key and returns buf.
//
// Key position restarts at zero for every call, so each asset must be
// decoded as one buffer. Applying Decode twice restores the input, which
// makes it its own encoder.
func Decode(buf []byte) []byte {
	for i := range buf {
		buf[i] ^= key[i%KeySize]
	}
	return buf
}

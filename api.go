package wdf

import (
	"github.com/meigma/wdf/stringid"
	"github.com/meigma/wdf/textcodec"
)

// StringID returns the build-time identifier of an asset path.
func StringID(name []byte) uint32 {
	return stringid.Sum(name)
}

// DecodeText removes the text XOR obfuscation from buf in place and
// returns it. Applying it twice restores the input.
func DecodeText(buf []byte) []byte {
	return textcodec.Decode(buf)
}

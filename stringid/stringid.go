// Package stringid computes the 32-bit asset identifiers that the legacy
// build pipeline assigned to packed assets.
//
// An identifier is derived from the asset's relative source path. The path
// is normalized first (see [Normalize]) and then hashed with a fixed
// lookup2-style mixing function (see [Hash]). The output must match the
// identifiers stored in existing archives bit for bit, so neither step may
// change.
package stringid

// golden is the initial value of a and b.
const golden = 0x9e3779b9

// categories are the top-level asset groups. Each group ships in its own
// archive, so a leading category directory is implicit and is not part of
// the hashed name.
var categories = [...]string{
	"character",
	"helper",
	"fx",
	"interface",
	"object",
	"setting",
	"tile",
	"map",
}

// Categories returns the category names that Normalize strips.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories[:])
	return out
}

// IsCategory reports whether name is a category, ignoring ASCII case.
func IsCategory(name []byte) bool {
	for _, c := range categories {
		if equalFoldASCII(name, c) {
			return true
		}
	}
	return false
}

// Sum returns the identifier of name.
func Sum(name []byte) uint32 {
	return Hash(Normalize(name))
}

// SumString is Sum for string input.
func SumString(name string) uint32 {
	return Sum([]byte(name))
}

// Normalize returns the byte sequence that Sum hashes.
//
// If the part before the first '/' or '\' names a category, it is dropped
// together with the separator. Every '\' then becomes '/' and ASCII
// uppercase letters are lowercased. Other bytes, including non-ASCII ones,
// are copied unchanged. The input is never modified.
func Normalize(name []byte) []byte {
	work := name
	if i := separatorIndex(name); i >= 0 && IsCategory(name[:i]) {
		work = name[i+1:]
	}

	out := make([]byte, len(work))
	for i, b := range work {
		switch {
		case b == '\\':
			out[i] = '/'
		case 'A' <= b && b <= 'Z':
			out[i] = b + ('a' - 'A')
		default:
			out[i] = b
		}
	}
	return out
}

func separatorIndex(name []byte) int {
	for i, b := range name {
		if b == '/' || b == '\\' {
			return i
		}
	}
	return -1
}

func equalFoldASCII(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := range b {
		c := b[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != s[i] {
			return false
		}
	}
	return true
}

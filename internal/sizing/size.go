// Package sizing provides overflow-checked size arithmetic for archive bounds.
package sizing

import "math"

// AddUint64 adds two uint64 values, returning (result, false) on overflow.
func AddUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}

// MulUint64 multiplies two uint64 values, returning (result, false) on overflow.
func MulUint64(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// InRange reports whether [off, off+n) lies within a source of the given size.
// A negative size is never in range.
func InRange(off, n uint64, size int64) bool {
	if size < 0 {
		return false
	}
	end, ok := AddUint64(off, n)
	return ok && end <= uint64(size)
}

// ToInt converts a uint64 to int, returning overflowErr if it doesn't fit.
func ToInt(n uint64, overflowErr error) (int, error) {
	if n > uint64(math.MaxInt) {
		return 0, overflowErr
	}
	return int(n), nil
}

package stringid

// Hash mixes buf into a 32-bit value. All arithmetic wraps modulo 2^32.
//
// buf is consumed in 12-byte little-endian blocks, then the total length is
// added to c and the 0-11 byte tail is folded into a, b and c before a
// final mixing round.
func Hash(buf []byte) uint32 {
	a, b, c := uint32(golden), uint32(golden), uint32(0)

	k := buf
	for len(k) >= 12 {
		a += le32(k[0:4])
		b += le32(k[4:8])
		c += le32(k[8:12])
		a, b, c = mix(a, b, c)
		k = k[12:]
	}

	c += uint32(len(buf)) //nolint:gosec // wraps by definition

	// The tail is folded from the last byte down. Bytes 1-4 land in a,
	// 5-8 in b and 9-11 in c, each shifted by its position in that group.
	// The lowest byte of c is reserved for the length.
	for n := len(k); n >= 1; n-- {
		v := uint32(k[n-1])
		switch {
		case n >= 9:
			c += v << (uint(n-8) * 8)
		case n >= 5:
			b += v << (uint(n-5) * 8)
		default:
			a += v << (uint(n-1) * 8)
		}
	}

	_, _, c = mix(a, b, c)
	return c
}

func le32(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

func mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= b
	a -= c
	a ^= c >> 13
	b -= c
	b -= a
	b ^= a << 8
	c -= a
	c -= b
	c ^= b >> 13
	a -= b
	a -= c
	a ^= c >> 12
	b -= c
	b -= a
	b ^= a << 16
	c -= a
	c -= b
	c ^= b >> 5
	a -= b
	a -= c
	a ^= c >> 3
	b -= c
	b -= a
	b ^= a << 10
	c -= a
	c -= b
	c ^= b >> 15
	return a, b, c
}

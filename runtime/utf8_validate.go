package cbor

import "unicode/utf8"

// isUTF8Valid validates UTF-8 for a byte slice. It can be overridden by
// architecture-specific, SIMD-accelerated implementations via build tags.
var isUTF8Valid = func(b []byte) bool { return utf8.Valid(b) }

// utf8Carry validates text delivered in pieces. A character split across
// pieces is held back until the rest of it arrives.
type utf8Carry struct {
	buf [utf8.UTFMax]byte
	n   int
}

// feed validates p as the continuation of everything fed so far.
func (c *utf8Carry) feed(p []byte) bool {
	if c.n > 0 {
		for c.n < utf8.UTFMax && len(p) > 0 && !utf8.FullRune(c.buf[:c.n]) {
			c.buf[c.n] = p[0]
			c.n++
			p = p[1:]
		}
		if !utf8.FullRune(c.buf[:c.n]) {
			return true
		}
		r, size := utf8.DecodeRune(c.buf[:c.n])
		if r == utf8.RuneError && size <= 1 || size != c.n {
			return false
		}
		c.n = 0
	}
	tail := incompleteSuffix(p)
	if !isUTF8Valid(p[:len(p)-tail]) {
		return false
	}
	c.n = copy(c.buf[:], p[len(p)-tail:])
	return true
}

// complete reports whether no partial character is pending.
func (c *utf8Carry) complete() bool { return c.n == 0 }

// incompleteSuffix returns the length of a trailing, truncated but so far
// plausible multi-byte sequence in p.
func incompleteSuffix(p []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(p); i++ {
		if utf8.RuneStart(p[len(p)-i]) {
			if utf8.FullRune(p[len(p)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

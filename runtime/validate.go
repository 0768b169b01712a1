package cbor

import "io"

// ValidateWellFormedBytes validates that the next CBOR data item in b is well-formed per RFC 8949
// and returns the remaining bytes after that item.
// Checks performed:
// - Structural correctness of arrays, maps, tags, simple values
// - String UTF-8 validity (for major type 3)
// - Prohibits reserved additional info values 28,29,30
// - Nesting no deeper than the default maximum depth
func ValidateWellFormedBytes(b []byte) (rest []byte, err error) {
	return DecodeBytes(b, discard{})
}

// ValidateDocument validates that b holds exactly one well-formed item.
func ValidateDocument(b []byte) error {
	rest, err := ValidateWellFormedBytes(b)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return &DecodeError{Offset: int64(len(b) - len(rest)), Err: ErrTrailingBytes}
	}
	return nil
}

// ValidateSequence validates that all items in b are well-formed until input is exhausted.
func ValidateSequence(b []byte) error {
	return ForEachSequenceBytes(b, func([]byte) error { return nil })
}

// ForEachSequenceBytes calls onItem for each CBOR item in a CBOR sequence buffer b.
// The item passed to onItem is a slice referencing b containing exactly one item.
func ForEachSequenceBytes(b []byte, onItem func(item []byte) error) error {
	d := NewDecoderBytes(b)
	for {
		start := d.InputOffset()
		if err := d.Skip(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := onItem(b[start:d.InputOffset()]); err != nil {
			return err
		}
	}
}

// SplitSequenceBytes splits a CBOR sequence into a slice of item slices referencing the original buffer.
func SplitSequenceBytes(b []byte) (out [][]byte, err error) {
	err = ForEachSequenceBytes(b, func(it []byte) error { out = append(out, it); return nil })
	return out, err
}

// AppendSequence appends a sequence of pre-encoded CBOR items to b.
// Each item must be a complete CBOR data item.
func AppendSequence(b []byte, items ...[]byte) []byte {
	for _, it := range items {
		b = append(b, it...)
	}
	return b
}

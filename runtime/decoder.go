package cbor

import (
	"io"

	"github.com/philhofer/fwd"
)

// TextValidation selects when the chunks of an indefinite-length text
// string are checked for well-formed UTF-8.
type TextValidation uint8

const (
	// ValidateReassembled checks the concatenation of all chunks, so a
	// character may be split across a chunk boundary.
	ValidateReassembled TextValidation = iota

	// ValidateEachChunk requires every chunk to be valid UTF-8 on its own,
	// as RFC 8949 §3.2.3 does.
	ValidateEachChunk
)

// Decoder reads CBOR items from a byte source and reports each one to a
// Visitor. A Decoder is not safe for concurrent use; independent
// Decoders share no state.
type Decoder struct {
	src           source
	depth         int
	maxDepth      int
	strict        bool
	deterministic bool
	maxContainer  uint32
	text          TextValidation

	// head is the offset of the initial byte of the item being decoded.
	head int64
	// err is sticky: once a decode fails, every later call returns it.
	err error
}

// NewDecoderBytes constructs a Decoder over the provided buffer.
// Byte and text payloads handed to visitors alias b.
func NewDecoderBytes(b []byte) *Decoder {
	return newDecoder(&sliceSource{buf: b})
}

// NewDecoder constructs a Decoder that reads exactly the bytes of each
// item from r. At most one byte beyond the last decoded item is read
// from r, and it is kept for the next Decode.
func NewDecoder(r io.Reader) *Decoder {
	return newDecoder(&streamSource{r: r})
}

// NewBufferedDecoder constructs a Decoder that reads from r through a
// buffer of the given size. It reads ahead of the current item.
func NewBufferedDecoder(r io.Reader, size int) *Decoder {
	return newDecoder(&fwdSource{r: fwd.NewReaderSize(r, size)})
}

func newDecoder(src source) *Decoder {
	return &Decoder{src: src, maxDepth: defaultMaxDepth}
}

// SetMaxDepth bounds the nesting of arrays, maps and tags. Values below
// one are treated as one, and values above 100000 as 100000.
func (d *Decoder) SetMaxDepth(n int) { d.maxDepth = max(1, min(n, recursionLimit)) }

// SetStrictDecode controls whether arguments, lengths and floats must
// use their shortest encoding.
func (d *Decoder) SetStrictDecode(strict bool) { d.strict = strict }

// SetDeterministicDecode controls whether indefinite-length items are
// forbidden.
func (d *Decoder) SetDeterministicDecode(det bool) { d.deterministic = det }

// SetMaxContainerLen configures an upper bound on container lengths
// (arrays, maps, byte strings, text strings), on the item count of
// indefinite-length containers and on the reassembled size of
// indefinite-length strings. A value of zero disables the limit.
// When exceeded, ErrContainerTooLarge is returned.
func (d *Decoder) SetMaxContainerLen(max uint32) { d.maxContainer = max }

// SetTextValidation selects how indefinite-length text strings are
// validated. The default is ValidateReassembled.
func (d *Decoder) SetTextValidation(v TextValidation) { d.text = v }

// InputOffset returns the number of bytes consumed so far.
func (d *Decoder) InputOffset() int64 { return d.src.offset() }

// Decode decodes the next item and reports it to v. It returns io.EOF
// when the input ends cleanly before an item. Any other failure is a
// *DecodeError and leaves the decoder unusable: later calls return the
// same error.
func (d *Decoder) Decode(v Visitor) error {
	if d.err != nil {
		return d.err
	}
	if _, err := d.src.peekByte(); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		d.err = &DecodeError{Offset: d.src.offset(), Err: err}
		return d.err
	}
	d.depth = 0
	if err := d.decodeItem(v); err != nil {
		d.err = &DecodeError{Offset: d.head, Err: err}
		return d.err
	}
	return nil
}

// Skip decodes and discards the next item.
func (d *Decoder) Skip() error { return d.Decode(discard{}) }

// PeekType reports the kind of the next item without consuming it.
// It returns io.EOF at the end of the input and InvalidType for a
// break byte or a reserved initial byte.
func (d *Decoder) PeekType() (Type, error) {
	if d.err != nil {
		return InvalidType, d.err
	}
	b, err := d.src.peekByte()
	if err != nil {
		return InvalidType, err
	}
	return typeOf(b), nil
}

// DecodeBytes decodes the first item in b, reports it to v and returns
// the bytes that follow it. An empty b is an ErrUnexpectedEOF.
func DecodeBytes(b []byte, v Visitor) (rest []byte, err error) {
	d := NewDecoderBytes(b)
	if err := d.Decode(v); err != nil {
		if err == io.EOF {
			return b, &DecodeError{Err: ErrUnexpectedEOF}
		}
		return b, err
	}
	return b[d.InputOffset():], nil
}

// decodeItem is the recursive entry point: it reads one header and
// dispatches on its major type.
func (d *Decoder) decodeItem(v Visitor) error {
	h, err := d.readHeader()
	if err != nil {
		return err
	}
	if h.isBreak() {
		return ErrUnexpectedBreak
	}
	var verr error
	switch h.major {
	case MajorUint:
		verr = v.VisitUint(h.arg)
	case MajorNegInt:
		verr = v.VisitNegInt(h.arg)
	case MajorBytes, MajorText:
		verr = d.decodeString(h, v)
	case MajorArray:
		verr = d.decodeArray(h, v)
	case MajorMap:
		verr = d.decodeMap(h, v)
	case MajorTag:
		verr = d.decodeTag(h, v)
	default:
		verr = d.decodeSimple(h, v)
	}
	if te, ok := verr.(*TypeError); ok && te.Expecting == "" {
		te.Expecting = v.Expecting()
	}
	return verr
}

// enter records one more level of nesting.
func (d *Decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return ErrMaxDepthExceeded
	}
	return nil
}

func (d *Decoder) leave() { d.depth-- }

// overLimit reports whether n exceeds the configured container limit.
func (d *Decoder) overLimit(n uint64) bool {
	return d.maxContainer > 0 && n > uint64(d.maxContainer)
}

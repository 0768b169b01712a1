package cbor

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DiagBytes renders the next CBOR item in RFC diagnostic notation and returns the remaining bytes.
func DiagBytes(b []byte) (string, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	rest, err := DecodeBytes(b, diagVisitor{bb})
	if err != nil {
		return "", b, err
	}
	return string(bb.Bytes()), rest, nil
}

// Diag renders the next item in RFC diagnostic notation.
func (d *Decoder) Diag() (string, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := d.Decode(diagVisitor{bb}); err != nil {
		return "", err
	}
	return string(bb.Bytes()), nil
}

// diagVisitor writes RFC 8949 §8 diagnostic notation. Indefinite-length
// items carry the "_" marker.
type diagVisitor struct {
	buf *ByteBuffer
}

func (diagVisitor) Expecting() string { return "any CBOR item" }

func (v diagVisitor) VisitBool(b bool) error {
	v.buf.WriteString(strconv.FormatBool(b))
	return nil
}

func (v diagVisitor) VisitUint(u uint64) error {
	v.buf.b = strconv.AppendUint(v.buf.b, u, 10)
	return nil
}

func (v diagVisitor) VisitNegInt(n uint64) error {
	v.buf.WriteString(negIntString(n))
	return nil
}

func (v diagVisitor) VisitFloat(f float64) error {
	v.buf.WriteString(formatFloatDiag(f))
	return nil
}

func (v diagVisitor) VisitBytes(b []byte) error {
	v.hex(b)
	return nil
}

func (v diagVisitor) hex(b []byte) {
	v.buf.WriteString("h'")
	hex.Encode(v.buf.Extend(hex.EncodedLen(len(b))), b)
	v.buf.WriteByte('\'')
}

func (v diagVisitor) VisitString(s string) error { return v.quote(s) }

// quote writes s with JSON string escaping, as diagnostic notation
// requires.
func (v diagVisitor) quote(s string) error {
	enc := json.NewEncoder(v.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	v.buf.truncate(v.buf.Len() - 1) // Encode appends a newline
	return nil
}

func (v diagVisitor) VisitByteChunks(c *ChunkIter) error { return v.chunks(c) }
func (v diagVisitor) VisitTextChunks(c *ChunkIter) error { return v.chunks(c) }

func (v diagVisitor) chunks(c *ChunkIter) error {
	mark := v.buf.Len()
	v.buf.WriteString("(_ ")
	for i := 0; ; i++ {
		p, more, err := c.Next()
		if err != nil {
			return err
		}
		if !more && i == 0 {
			// no chunks at all: ''_ or ""_
			v.buf.truncate(mark)
			if c.Text() {
				v.buf.WriteString(`""_`)
			} else {
				v.buf.WriteString("''_")
			}
			return nil
		}
		if !more {
			break
		}
		if i > 0 {
			v.buf.WriteString(", ")
		}
		// A text chunk that splits a character has no string form and
		// is shown as bytes.
		if c.Text() && utf8.Valid(p) {
			if err := v.quote(string(p)); err != nil {
				return err
			}
		} else {
			v.hex(p)
		}
	}
	v.buf.WriteByte(')')
	return nil
}

func (v diagVisitor) VisitArray(a *ArrayIter) error {
	if _, definite := a.Len(); definite {
		v.buf.WriteByte('[')
	} else {
		v.buf.WriteString("[_ ")
	}
	for i := 0; ; i++ {
		mark := v.buf.Len()
		if i > 0 {
			v.buf.WriteString(", ")
		}
		more, err := a.Next(v)
		if err != nil {
			return err
		}
		if !more {
			v.buf.truncate(mark)
			break
		}
	}
	v.buf.WriteByte(']')
	return nil
}

func (v diagVisitor) VisitMap(m *MapIter) error {
	if _, definite := m.Len(); definite {
		v.buf.WriteByte('{')
	} else {
		v.buf.WriteString("{_ ")
	}
	for i := 0; ; i++ {
		mark := v.buf.Len()
		if i > 0 {
			v.buf.WriteString(", ")
		}
		more, err := m.NextKey(v)
		if err != nil {
			return err
		}
		if !more {
			v.buf.truncate(mark)
			break
		}
		v.buf.WriteString(": ")
		if err := m.Value(v); err != nil {
			return err
		}
	}
	v.buf.WriteByte('}')
	return nil
}

func (v diagVisitor) VisitTag(number uint64, c *TagContent) error {
	v.buf.b = strconv.AppendUint(v.buf.b, number, 10)
	v.buf.WriteByte('(')
	if err := c.Decode(v); err != nil {
		return err
	}
	v.buf.WriteByte(')')
	return nil
}

func (v diagVisitor) VisitSimple(s uint8) error {
	v.buf.WriteString("simple(")
	v.buf.b = strconv.AppendUint(v.buf.b, uint64(s), 10)
	v.buf.WriteByte(')')
	return nil
}

func (v diagVisitor) VisitNull() error {
	v.buf.WriteString("null")
	return nil
}

func (v diagVisitor) VisitUndefined() error {
	v.buf.WriteString("undefined")
	return nil
}

// formatFloatDiag formats f the way RFC 8949 Appendix A does: always
// with a fraction or exponent, fixed-point between 1e-7 and 1e21.
func formatFloatDiag(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	if af := math.Abs(f); af == 0 || (af >= 1e-7 && af < 1e21) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

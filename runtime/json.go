package cbor

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
)

// ToJSONBytes converts the next CBOR item into JSON following RFC 8949
// §6.1 and returns the JSON bytes and remainder:
//   - byte strings become base64url strings without padding, unless an
//     enclosing tag 21, 22 or 23 asks for base64url, base64 or base16;
//   - other tags are dropped and their content converted;
//   - non-finite floats, undefined and other simple values become null;
//   - map keys that are not text strings are replaced by their
//     diagnostic notation.
func ToJSONBytes(b []byte) ([]byte, []byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	rest, err := DecodeBytes(b, jsonVisitor{buf: bb})
	if err != nil {
		return nil, b, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, rest, nil
}

// JSON converts the next item into JSON like ToJSONBytes does.
func (d *Decoder) JSON() ([]byte, error) {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := d.Decode(jsonVisitor{buf: bb}); err != nil {
		return nil, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

// byteEncoding selects how byte strings are rendered in JSON.
type byteEncoding uint8

const (
	encBase64URL byteEncoding = iota
	encBase64
	encBase16
)

type jsonVisitor struct {
	buf *ByteBuffer
	enc byteEncoding
}

func (jsonVisitor) Expecting() string { return "any CBOR item" }

func (v jsonVisitor) VisitBool(b bool) error {
	v.buf.WriteString(strconv.FormatBool(b))
	return nil
}

func (v jsonVisitor) VisitUint(u uint64) error {
	v.buf.b = strconv.AppendUint(v.buf.b, u, 10)
	return nil
}

func (v jsonVisitor) VisitNegInt(n uint64) error {
	v.buf.WriteString(negIntString(n))
	return nil
}

func (v jsonVisitor) VisitFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return v.VisitNull()
	}
	js, err := json.Marshal(f)
	if err != nil {
		return err
	}
	v.buf.Write(js)
	return nil
}

func (v jsonVisitor) VisitBytes(b []byte) error {
	v.buf.WriteByte('"')
	switch v.enc {
	case encBase64:
		base64.StdEncoding.Encode(v.buf.Extend(base64.StdEncoding.EncodedLen(len(b))), b)
	case encBase16:
		hex.Encode(v.buf.Extend(hex.EncodedLen(len(b))), b)
	default:
		base64.RawURLEncoding.Encode(v.buf.Extend(base64.RawURLEncoding.EncodedLen(len(b))), b)
	}
	v.buf.WriteByte('"')
	return nil
}

func (v jsonVisitor) VisitString(s string) error {
	js, err := json.Marshal(s)
	if err != nil {
		return err
	}
	v.buf.Write(js)
	return nil
}

func (v jsonVisitor) VisitArray(a *ArrayIter) error {
	v.buf.WriteByte('[')
	for i := 0; ; i++ {
		mark := v.buf.Len()
		if i > 0 {
			v.buf.WriteByte(',')
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

func (v jsonVisitor) VisitMap(m *MapIter) error {
	key := GetByteBuffer()
	defer PutByteBuffer(key)
	v.buf.WriteByte('{')
	for i := 0; ; i++ {
		key.Reset()
		more, err := m.NextKey(jsonKeyVisitor{diagVisitor{key}})
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if i > 0 {
			v.buf.WriteByte(',')
		}
		if err := v.VisitString(string(key.Bytes())); err != nil {
			return err
		}
		v.buf.WriteByte(':')
		if err := m.Value(v); err != nil {
			return err
		}
	}
	v.buf.WriteByte('}')
	return nil
}

func (v jsonVisitor) VisitTag(number uint64, c *TagContent) error {
	switch number {
	case tagBase64URL:
		v.enc = encBase64URL
	case tagBase64:
		v.enc = encBase64
	case tagBase16:
		v.enc = encBase16
	}
	return c.Decode(v)
}

func (v jsonVisitor) VisitSimple(uint8) error { return v.VisitNull() }
func (v jsonVisitor) VisitUndefined() error { return v.VisitNull() }

func (v jsonVisitor) VisitNull() error {
	v.buf.WriteString("null")
	return nil
}

// jsonKeyVisitor renders a map key as the text of a JSON object member
// name: text keys verbatim, anything else in diagnostic notation.
type jsonKeyVisitor struct {
	diagVisitor
}

func (v jsonKeyVisitor) VisitString(s string) error {
	v.buf.WriteString(s)
	return nil
}

func (v jsonKeyVisitor) VisitTextChunks(c *ChunkIter) error {
	for {
		p, more, err := c.Next()
		if err != nil || !more {
			return err
		}
		v.buf.Write(p)
	}
}

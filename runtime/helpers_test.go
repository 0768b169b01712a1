package cbor_test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"testing/iotest"

	cbor "github.com/synadia-labs/cbor-stream/runtime"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// sources opens the same bytes through every byte source the decoder supports.
var sources = []struct {
	name string
	open func([]byte) *cbor.Decoder
}{
	{"slice", cbor.NewDecoderBytes},
	{"stream", func(b []byte) *cbor.Decoder { return cbor.NewDecoder(bytes.NewReader(b)) }},
	{"stream-one-byte", func(b []byte) *cbor.Decoder {
		return cbor.NewDecoder(iotest.OneByteReader(bytes.NewReader(b)))
	}},
	{"buffered", func(b []byte) *cbor.Decoder { return cbor.NewBufferedDecoder(bytes.NewReader(b), 16) }},
}

// recorder logs every visitor call. Definite and indefinite encodings of
// the same content produce the same log.
type recorder struct {
	events *[]string
}

func newRecorder() recorder { return recorder{events: new([]string)} }

func (r recorder) add(format string, args ...any) {
	*r.events = append(*r.events, fmt.Sprintf(format, args...))
}

func (recorder) Expecting() string { return "anything" }

func (r recorder) VisitBool(b bool) error { r.add("bool %t", b); return nil }
func (r recorder) VisitUint(u uint64) error { r.add("uint %d", u); return nil }
func (r recorder) VisitNegInt(n uint64) error { r.add("neg %d", n); return nil }
func (r recorder) VisitFloat(f float64) error { r.add("float %v", f); return nil }
func (r recorder) VisitBytes(b []byte) error { r.add("bytes %x", b); return nil }
func (r recorder) VisitString(s string) error { r.add("text %q", s); return nil }
func (r recorder) VisitSimple(v uint8) error { r.add("simple %d", v); return nil }
func (r recorder) VisitNull() error { r.add("null"); return nil }
func (r recorder) VisitUndefined() error { r.add("undefined"); return nil }

func (r recorder) VisitArray(a *cbor.ArrayIter) error {
	r.add("array")
	for {
		more, err := a.Next(r)
		if err != nil {
			return err
		}
		if !more {
			r.add("end")
			return nil
		}
	}
}

func (r recorder) VisitMap(m *cbor.MapIter) error {
	r.add("map")
	for {
		more, err := m.Next(r, r)
		if err != nil {
			return err
		}
		if !more {
			r.add("end")
			return nil
		}
	}
}

func (r recorder) VisitTag(number uint64, c *cbor.TagContent) error {
	r.add("tag %d", number)
	return c.Decode(r)
}

// record decodes one item from b and returns the visitor log.
func record(t testing.TB, b []byte) []string {
	t.Helper()
	r := newRecorder()
	if _, err := cbor.DecodeBytes(b, r); err != nil {
		t.Fatalf("decode %x: %v", b, err)
	}
	return *r.events
}

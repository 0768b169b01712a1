package tests

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	cbor "github.com/synadia-labs/cbor-stream/runtime"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}
	return b
}

// decodeWith skips one item from b using a decoder set up by configure.
func decodeWith(t *testing.T, s string, configure func(*cbor.Decoder)) error {
	t.Helper()
	d := cbor.NewDecoderBytes(mustHex(t, s))
	configure(d)
	return d.Skip()
}

func strict(d *cbor.Decoder)        { d.SetStrictDecode(true) }
func deterministic(d *cbor.Decoder) { d.SetDeterministicDecode(true) }

// TestDeterministicWriterOrder verifies that map[string]any encoding
// orders keys by length first and then bytewise, which for text keys
// matches the order of their encoded bytes.
func TestDeterministicWriterOrder(t *testing.T) {
	m := map[string]any{"b": 1, "a": 2, "aa": 3}
	b, err := cbor.AppendValue(nil, m)
	if err != nil {
		t.Fatalf("AppendValue error: %v", err)
	}
	// Expected encoding: a3 61 61 02 61 62 01 62 61 61 03
	want := mustHex(t, "a361610261620162616103")
	if !bytesEqual(b, want) {
		t.Fatalf("deterministic map mismatch: got %s want %s",
			hex.EncodeToString(b), hex.EncodeToString(want))
	}
}

// TestDuplicateKeysPassThrough validates that the decoder reports
// duplicate map keys in stream order and leaves the policy to the
// visitor.
func TestDuplicateKeysPassThrough(t *testing.T) {
	// {"a":1, "a":2}
	dup := mustHex(t, "a2616101616102")
	v, _, err := cbor.DecodeValue(dup)
	if err != nil {
		t.Fatalf("DecodeValue error: %v", err)
	}
	m := v.(cbor.Map)
	if len(m) != 2 || m[0].Value != uint64(1) || m[1].Value != uint64(2) {
		t.Fatalf("expected both pairs in order, got %#v", m)
	}
	for _, d := range []func(*cbor.Decoder){strict, deterministic} {
		if err := decodeWith(t, "a2616101616102", d); err != nil {
			t.Fatalf("duplicate keys rejected: %v", err)
		}
	}
}

// TestStrictModeLengthAndIndefinite exercises strict and deterministic
// decoding behaviors:
//
//   - Non-canonical container and string lengths produce ErrNonCanonicalLength.
//   - Indefinite-length items are forbidden in deterministic mode.
func TestStrictModeLengthAndIndefinite(t *testing.T) {
	tests := []struct {
		name      string
		hex       string
		configure func(*cbor.Decoder)
		want      error
	}{
		// array of length 2 encoded as uint8
		{"array-length", "98020102", strict, cbor.ErrNonCanonicalLength},
		// map of length 2 encoded as uint8
		{"map-length", "b80201020304", strict, cbor.ErrNonCanonicalLength},
		// byte string len=1 via uint16
		{"bytes-length", "590001ff", strict, cbor.ErrNonCanonicalLength},
		// text len=1 via uint16
		{"text-length", "79000161", strict, cbor.ErrNonCanonicalLength},
		// non-canonical length of a nested item
		{"nested-length", "8178016161", strict, cbor.ErrNonCanonicalLength},
		{"indef-array", "9fff", deterministic, cbor.ErrIndefiniteForbidden},
		{"indef-map", "bfff", deterministic, cbor.ErrIndefiniteForbidden},
		{"indef-bytes", "5fff", deterministic, cbor.ErrIndefiniteForbidden},
		{"indef-text", "7fff", deterministic, cbor.ErrIndefiniteForbidden},
		{"nested-indef", "819fff", deterministic, cbor.ErrIndefiniteForbidden},
		// a stray break is still a break, not a forbidden indefinite item
		{"lone-break", "ff", deterministic, cbor.ErrUnexpectedBreak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := decodeWith(t, tt.hex, tt.configure); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	// The same inputs decode without the options.
	for _, s := range []string{"98020102", "590001ff", "9fff", "5fff"} {
		if err := decodeWith(t, s, func(*cbor.Decoder) {}); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
}

// TestStrictModeIntegers exercises canonical integer encodings under
// strict mode. Non-minimal integer, tag number and simple value
// encodings are rejected with ErrNonCanonicalInteger, while canonical
// forms continue to decode successfully.
func TestStrictModeIntegers(t *testing.T) {
	for _, s := range []string{"1818", "20", "3818", "190100", "1a00010000", "1b0000000100000000", "d818 00", "f820"} {
		if err := decodeWith(t, s, strict); err != nil {
			t.Fatalf("canonical %s rejected: %v", s, err)
		}
	}
	for _, s := range []string{"190018", "3800", "1a0000ffff", "1b00000000ffffffff", "d90001 00", "c1 1817"} {
		if err := decodeWith(t, s, strict); !errors.Is(err, cbor.ErrNonCanonicalInteger) {
			t.Fatalf("%s: expected ErrNonCanonicalInteger, got %v", s, err)
		}
	}
}

// TestStrictModeFloats exercises canonical float encodings under strict mode.
// Non-minimal float32/float64 encodings should be rejected with ErrNonCanonicalFloat.
func TestStrictModeFloats(t *testing.T) {
	// 1.0 encoded as float32 and float64 (non-canonical; should be float16).
	for _, b := range [][]byte{cbor.AppendFloat32(nil, 1.0), cbor.AppendFloat64(nil, 1.0)} {
		if err := decodeWith(t, hex.EncodeToString(b), strict); !errors.Is(err, cbor.ErrNonCanonicalFloat) {
			t.Fatalf("%x: expected ErrNonCanonicalFloat, got %v", b, err)
		}
	}
	// NaN wider than half precision
	if err := decodeWith(t, "fa7fc00000", strict); !errors.Is(err, cbor.ErrNonCanonicalFloat) {
		t.Fatalf("expected ErrNonCanonicalFloat for single NaN, got %v", err)
	}

	// A value not exactly representable in float32 (1/3) should be
	// canonically encoded as float64; strict mode should accept it.
	val := 1.0 / 3.0
	canon := cbor.AppendFloatCanonical(nil, val)
	d := cbor.NewDecoderBytes(canon)
	d.SetStrictDecode(true)
	var n cbor.Number
	if err := d.Decode(&n); err != nil {
		t.Fatalf("expected canonical float64 to decode, got err %v", err)
	}
	if got := n.Float64(); got != val {
		t.Fatalf("float64 value mismatch: got %v want %v", got, val)
	}
}

// TestMaxContainerLen verifies that the decoder enforces configured
// container size limits for arrays, maps and strings, definite or not.
func TestMaxContainerLen(t *testing.T) {
	limit := func(d *cbor.Decoder) { d.SetMaxContainerLen(2) }
	for _, s := range []string{
		"83010203",             // [1,2,3]
		"a3616101616202616303", // {"a":1,"b":2,"c":3}
		"43010203",             // h'010203'
		"63616263",             // "abc"
		"9f010203ff",           // [_ 1,2,3]
		"bf616101616202616303ff",
		"5f4201024103ff", // (_ h'0102', h'03')
		"8183010203",     // [[1,2,3]]
	} {
		if err := decodeWith(t, s, limit); !errors.Is(err, cbor.ErrContainerTooLarge) {
			t.Fatalf("%s: expected ErrContainerTooLarge, got %v", s, err)
		}
	}
	for _, s := range []string{"820102", "a2616101616202", "9f0102ff", "5f4101410 2ff"} {
		if err := decodeWith(t, s, limit); err != nil {
			t.Fatalf("%s: within the limit but got %v", s, err)
		}
	}
}

// bytesEqual is a small helper to compare two byte slices without allocating.
func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

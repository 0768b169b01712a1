package tests

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	cbor "github.com/synadia-labs/cbor-stream/runtime"
)

// vector is one entry of appendix_a.json, in the layout of the
// cbor/test-vectors project.
type vector struct {
	Hex        string          `json:"hex"`
	Roundtrip  bool            `json:"roundtrip"`
	Decoded    json.RawMessage `json:"decoded"`
	Diagnostic string          `json:"diagnostic"`
}

func loadVectors(tb testing.TB) []vector {
	tb.Helper()
	b, err := os.ReadFile("appendix_a.json")
	if err != nil {
		tb.Fatalf("read appendix_a.json: %v", err)
	}
	var vects []vector
	if err := json.Unmarshal(b, &vects); err != nil {
		tb.Fatalf("parse appendix_a.json: %v", err)
	}
	return vects
}

type impl struct {
	name     string
	validate func([]byte) ([]byte, error)
	diag     func([]byte) (string, []byte, error)
}

var impls = []impl{
	{
		name:     "bytes",
		validate: cbor.ValidateWellFormedBytes,
		diag:     cbor.DiagBytes,
	},
	{
		name: "stream",
		validate: func(b []byte) ([]byte, error) {
			d := cbor.NewDecoder(bytes.NewReader(b))
			if err := d.Skip(); err != nil {
				return b, err
			}
			return b[d.InputOffset():], nil
		},
		diag: func(b []byte) (string, []byte, error) {
			d := cbor.NewDecoder(bytes.NewReader(b))
			s, err := d.Diag()
			if err != nil {
				return "", b, err
			}
			return s, b[d.InputOffset():], nil
		},
	},
}

// TestCommunityVectors validates the runtime against the community
// test vectors stored in appendix_a.json.
func TestCommunityVectors(t *testing.T) {
	vects := loadVectors(t)
	if len(vects) == 0 {
		t.Fatal("no vectors in appendix_a.json")
	}
	for _, v := range vects {
		t.Run(v.Hex, func(t *testing.T) {
			msg, err := hex.DecodeString(v.Hex)
			if err != nil {
				t.Fatalf("bad hex: %v", err)
			}
			for _, impl := range impls {
				t.Run(impl.name, func(t *testing.T) {
					r, err := impl.validate(msg)
					if err != nil {
						t.Fatalf("%s: well-formed failed: %v", impl.name, err)
					}
					if len(r) != 0 {
						t.Fatalf("%s: leftover bytes: %d", impl.name, len(r))
					}
					if v.Diagnostic == "" {
						return
					}
					got, rest, err := impl.diag(msg)
					if err != nil {
						t.Fatalf("%s: diag error: %v", impl.name, err)
					}
					if len(rest) != 0 {
						t.Fatalf("%s: diag leftover: %d", impl.name, len(rest))
					}
					if got != v.Diagnostic {
						t.Fatalf("%s: diag mismatch: got %q want %q", impl.name, got, v.Diagnostic)
					}
				})
			}

			if len(v.Decoded) > 0 {
				js, _, err := cbor.ToJSONBytes(msg)
				if err != nil {
					t.Fatalf("ToJSONBytes: %v", err)
				}
				var got, want any
				if err := json.Unmarshal(js, &got); err != nil {
					t.Fatalf("our JSON %s does not parse: %v", js, err)
				}
				if err := json.Unmarshal(v.Decoded, &want); err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
				}
			}

			if v.Roundtrip {
				val, _, err := cbor.DecodeValue(msg)
				if err != nil {
					t.Fatalf("DecodeValue: %v", err)
				}
				enc, err := appendCanonical(nil, val)
				if err != nil {
					t.Fatalf("re-encode: %v", err)
				}
				if !bytes.Equal(enc, msg) {
					t.Fatalf("roundtrip mismatch: got %x", enc)
				}
			}
		})
	}
}

// appendCanonical re-encodes a decoded value with floats in their
// shortest form.
func appendCanonical(b []byte, v any) ([]byte, error) {
	var err error
	switch v := v.(type) {
	case float64:
		return cbor.AppendFloatCanonical(b, v), nil
	case cbor.Tag:
		return appendCanonical(cbor.AppendTag(b, v.Number), v.Content)
	case []any:
		b = cbor.AppendArrayHeader(b, uint32(len(v)))
		for _, e := range v {
			if b, err = appendCanonical(b, e); err != nil {
				return b, err
			}
		}
		return b, nil
	case cbor.Map:
		b = cbor.AppendMapHeader(b, uint32(len(v)))
		for _, p := range v {
			if b, err = appendCanonical(b, p.Key); err != nil {
				return b, err
			}
			if b, err = appendCanonical(b, p.Value); err != nil {
				return b, err
			}
		}
		return b, nil
	}
	return cbor.AppendValue(b, v)
}

package cbor

import (
	"cmp"
	"encoding/binary"
	"math"
	"reflect"
	"slices"

	"github.com/x448/float16"
)

// ensure 'sz' extra bytes in 'b' btw len(b) and cap(b)
func ensure(b []byte, sz int) ([]byte, int) {
	l := len(b)
	c := cap(b)
	if c-l < sz {
		o := make([]byte, (2*c)+sz) // exponential growth
		n := copy(o, b)
		return o[:n+sz], n
	}
	return b[:l+sz], l
}

// appendUintCore encodes an argument with the given major type in its shortest form.
func appendUintCore(b []byte, major MajorType, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return append(b, makeByte(major, uint8(u)))
	case u <= math.MaxUint8:
		o, n := ensure(b, 2)
		o[n] = makeByte(major, addInfoUint8)
		o[n+1] = uint8(u)
		return o
	case u <= math.MaxUint16:
		o, n := ensure(b, 3)
		o[n] = makeByte(major, addInfoUint16)
		binary.BigEndian.PutUint16(o[n+1:], uint16(u))
		return o
	case u <= math.MaxUint32:
		o, n := ensure(b, 5)
		o[n] = makeByte(major, addInfoUint32)
		binary.BigEndian.PutUint32(o[n+1:], uint32(u))
		return o
	default:
		o, n := ensure(b, 9)
		o[n] = makeByte(major, addInfoUint64)
		binary.BigEndian.PutUint64(o[n+1:], u)
		return o
	}
}

// AppendMapHeader appends a map header with the given number of pairs
func AppendMapHeader(b []byte, sz uint32) []byte {
	return appendUintCore(b, MajorMap, uint64(sz))
}

// AppendArrayHeader appends an array header with the given size
func AppendArrayHeader(b []byte, sz uint32) []byte {
	return appendUintCore(b, MajorArray, uint64(sz))
}

// AppendArrayHeaderIndefinite appends an indefinite-length array header (0x9f)
func AppendArrayHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(MajorArray, addInfoIndefinite))
}

// AppendMapHeaderIndefinite appends an indefinite-length map header (0xbf)
func AppendMapHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(MajorMap, addInfoIndefinite))
}

// AppendTextHeaderIndefinite appends an indefinite-length text string header (0x7f).
// Follow it with AppendString chunks and AppendBreak.
func AppendTextHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(MajorText, addInfoIndefinite))
}

// AppendBytesHeaderIndefinite appends an indefinite-length byte string header (0x5f).
// Follow it with AppendBytes chunks and AppendBreak.
func AppendBytesHeaderIndefinite(b []byte) []byte {
	return append(b, makeByte(MajorBytes, addInfoIndefinite))
}

// AppendBreak appends the stop code (0xff) that ends an indefinite-length item
func AppendBreak(b []byte) []byte {
	return append(b, breakByte)
}

// AppendNil appends a nil value
func AppendNil(b []byte) []byte {
	return append(b, makeByte(MajorSimple, simpleNull))
}

// AppendUndefined appends an undefined simple value (23)
func AppendUndefined(b []byte) []byte {
	return append(b, makeByte(MajorSimple, simpleUndefined))
}

// AppendBool appends a bool
func AppendBool(b []byte, val bool) []byte {
	if val {
		return append(b, makeByte(MajorSimple, simpleTrue))
	}
	return append(b, makeByte(MajorSimple, simpleFalse))
}

// AppendSimpleValue appends a generic simple value.
// Values 0..23 are encoded in the additional information;
// values 32..255 are encoded as 0xf8 XX.
// Note: 24..31 have no valid encoding and are not handled here.
func AppendSimpleValue(b []byte, val uint8) []byte {
	if val <= addInfoDirect {
		return append(b, makeByte(MajorSimple, val))
	}
	return append(b, makeByte(MajorSimple, simpleExtended), val)
}

// AppendFloat64 appends a float64
func AppendFloat64(b []byte, f float64) []byte {
	o, n := ensure(b, 9)
	o[n] = makeByte(MajorSimple, simpleFloat64)
	binary.BigEndian.PutUint64(o[n+1:], math.Float64bits(f))
	return o
}

// AppendFloat32 appends a float32
func AppendFloat32(b []byte, f float32) []byte {
	o, n := ensure(b, 5)
	o[n] = makeByte(MajorSimple, simpleFloat32)
	binary.BigEndian.PutUint32(o[n+1:], math.Float32bits(f))
	return o
}

// AppendFloat16 appends a float16 (IEEE 754 binary16) encoded value,
// rounding f to the nearest half-precision value.
func AppendFloat16(b []byte, f float32) []byte {
	o, n := ensure(b, 3)
	o[n] = makeByte(MajorSimple, simpleFloat16)
	binary.BigEndian.PutUint16(o[n+1:], float16.Fromfloat32(f).Bits())
	return o
}

// AppendFloatCanonical appends the shortest-width float (f16/f32/f64) that preserves the value.
// NaN is written as the canonical half-precision quiet NaN (0xf97e00).
func AppendFloatCanonical(b []byte, f float64) []byte {
	if math.IsNaN(f) {
		return append(b, makeByte(MajorSimple, simpleFloat16), 0x7e, 0x00)
	}
	switch floatWidth(f) {
	case simpleFloat16:
		return AppendFloat16(b, float32(f))
	case simpleFloat32:
		return AppendFloat32(b, float32(f))
	default:
		return AppendFloat64(b, f)
	}
}

// AppendInt64 appends an int64 using canonical CBOR integer encoding.
func AppendInt64(b []byte, i int64) []byte {
	if i < 0 {
		return appendUintCore(b, MajorNegInt, uint64(-1-i))
	}
	return appendUintCore(b, MajorUint, uint64(i))
}

// AppendUint64 appends a uint64
func AppendUint64(b []byte, u uint64) []byte {
	return appendUintCore(b, MajorUint, u)
}

// AppendNegInt appends the negative integer -1-n.
func AppendNegInt(b []byte, n uint64) []byte {
	return appendUintCore(b, MajorNegInt, n)
}

// AppendBytes appends a byte string
func AppendBytes(b []byte, data []byte) []byte {
	b = appendUintCore(b, MajorBytes, uint64(len(data)))
	return append(b, data...)
}

// AppendString appends a text string
func AppendString(b []byte, s string) []byte {
	b = appendUintCore(b, MajorText, uint64(len(s)))
	return append(b, s...)
}

// AppendTag appends a generic semantic tag
func AppendTag(b []byte, tag uint64) []byte {
	return appendUintCore(b, MajorTag, tag)
}

// AppendTagged appends a tag followed by a pre-encoded value
func AppendTagged(b []byte, tag uint64, value []byte) []byte {
	b = AppendTag(b, tag)
	return append(b, value...)
}

// AppendValue appends a generic value as produced by DecodeValue, plus
// the other Go integer and float kinds, []any and map[string]any. Keys
// of a map[string]any are written in length-first, then bytewise order.
func AppendValue(b []byte, v any) ([]byte, error) {
	return appendValue(b, v, 0)
}

func appendValue(b []byte, v any, depth int) ([]byte, error) {
	if depth > recursionLimit {
		return b, ErrMaxDepthExceeded
	}
	var err error
	switch v := v.(type) {
	case nil:
		return AppendNil(b), nil
	case bool:
		return AppendBool(b, v), nil
	case Undefined:
		return AppendUndefined(b), nil
	case Simple:
		if v >= simpleFalse && v < simpleMinExtended {
			return b, ErrMalformedSimpleValue
		}
		return AppendSimpleValue(b, uint8(v)), nil
	case uint64:
		return AppendUint64(b, v), nil
	case uint:
		return AppendUint64(b, uint64(v)), nil
	case uint32:
		return AppendUint64(b, uint64(v)), nil
	case uint16:
		return AppendUint64(b, uint64(v)), nil
	case uint8:
		return AppendUint64(b, uint64(v)), nil
	case int64:
		return AppendInt64(b, v), nil
	case int:
		return AppendInt64(b, int64(v)), nil
	case int32:
		return AppendInt64(b, int64(v)), nil
	case int16:
		return AppendInt64(b, int64(v)), nil
	case int8:
		return AppendInt64(b, int64(v)), nil
	case NegInt:
		return AppendNegInt(b, uint64(v)), nil
	case float64:
		return AppendFloat64(b, v), nil
	case float32:
		return AppendFloat32(b, v), nil
	case []byte:
		return AppendBytes(b, v), nil
	case string:
		return AppendString(b, v), nil
	case []any:
		b = appendUintCore(b, MajorArray, uint64(len(v)))
		for _, e := range v {
			if b, err = appendValue(b, e, depth+1); err != nil {
				return b, err
			}
		}
		return b, nil
	case Map:
		b = appendUintCore(b, MajorMap, uint64(len(v)))
		for _, p := range v {
			if b, err = appendValue(b, p.Key, depth+1); err != nil {
				return b, err
			}
			if b, err = appendValue(b, p.Value, depth+1); err != nil {
				return b, err
			}
		}
		return b, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, func(x, y string) int {
			return cmp.Or(cmp.Compare(len(x), len(y)), cmp.Compare(x, y))
		})
		b = appendUintCore(b, MajorMap, uint64(len(v)))
		for _, k := range keys {
			b = AppendString(b, k)
			if b, err = appendValue(b, v[k], depth+1); err != nil {
				return b, err
			}
		}
		return b, nil
	case Tag:
		b = AppendTag(b, v.Number)
		return appendValue(b, v.Content, depth+1)
	default:
		return b, &ErrUnsupportedType{T: reflect.TypeOf(v)}
	}
}

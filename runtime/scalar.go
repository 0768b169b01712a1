package cbor

import (
	"math"

	"github.com/x448/float16"
)

// decodeSimple handles major type 7 other than the break byte.
func (d *Decoder) decodeSimple(h header, v Visitor) error {
	switch h.info {
	case simpleFalse:
		return v.VisitBool(false)
	case simpleTrue:
		return v.VisitBool(true)
	case simpleNull:
		return v.VisitNull()
	case simpleUndefined:
		return v.VisitUndefined()
	case simpleExtended:
		if h.arg < simpleMinExtended {
			return ErrMalformedSimpleValue
		}
		return v.VisitSimple(uint8(h.arg))
	case simpleFloat16:
		f := float16.Frombits(uint16(h.arg)).Float32()
		if err := d.checkFloat(h, float64(f)); err != nil {
			return err
		}
		return visitFloat32(v, f)
	case simpleFloat32:
		f := math.Float32frombits(uint32(h.arg))
		if err := d.checkFloat(h, float64(f)); err != nil {
			return err
		}
		return visitFloat32(v, f)
	case simpleFloat64:
		f := math.Float64frombits(h.arg)
		if err := d.checkFloat(h, f); err != nil {
			return err
		}
		return v.VisitFloat(f)
	}
	return v.VisitSimple(h.info)
}

func visitFloat32(v Visitor, f float32) error {
	if fv, ok := v.(Float32Visitor); ok {
		return fv.VisitFloat32(f)
	}
	return v.VisitFloat(float64(f))
}

// checkFloat rejects, in strict mode, a float that a narrower width
// would have represented exactly.
func (d *Decoder) checkFloat(h header, f float64) error {
	if d.strict && floatWidth(f) != h.info {
		return ErrNonCanonicalFloat
	}
	return nil
}

// floatWidth returns the additional info of the shortest float encoding
// that preserves f. NaN always fits in half precision.
func floatWidth(f float64) uint8 {
	if math.IsNaN(f) {
		return simpleFloat16
	}
	f32 := float32(f)
	if float64(f32) != f {
		return simpleFloat64
	}
	if float16.Fromfloat32(f32).Float32() == f32 {
		return simpleFloat16
	}
	return simpleFloat32
}

// UintToInt64 converts the value of an unsigned integer to an int64.
func UintToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, UintOverflow{Value: u, FailedBitsize: 64}
	}
	return int64(u), nil
}

// NegIntToInt64 converts the argument n of the negative integer -1-n
// to its int64 value.
func NegIntToInt64(n uint64) (int64, error) {
	if n > math.MaxInt64 {
		return 0, NegIntOverflow{Arg: n}
	}
	return -1 - int64(n), nil
}

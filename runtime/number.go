package cbor

import (
	"math"
	"math/bits"
	"strconv"
)

// Number is a Visitor that accepts any CBOR number: an unsigned or
// negative integer, or a half, single or double float. The zero value
// is the unsigned integer 0. Narrowing conversions report overflow
// instead of truncating.
type Number struct {
	BaseVisitor
	bits uint64 // value, negative-integer argument, or float64 bits
	typ  Type   // UintType, IntType or FloatType
	f32  bool   // float came from half or single precision
}

// Expecting implements Visitor.
func (*Number) Expecting() string { return "a number" }

// VisitUint implements Visitor.
func (n *Number) VisitUint(u uint64) error {
	*n = Number{bits: u, typ: UintType}
	return nil
}

// VisitNegInt implements Visitor.
func (n *Number) VisitNegInt(arg uint64) error {
	*n = Number{bits: arg, typ: IntType}
	return nil
}

// VisitFloat implements Visitor.
func (n *Number) VisitFloat(f float64) error {
	*n = Number{bits: math.Float64bits(f), typ: FloatType}
	return nil
}

// VisitFloat32 implements Float32Visitor.
func (n *Number) VisitFloat32(f float32) error {
	*n = Number{bits: math.Float64bits(float64(f)), typ: FloatType, f32: true}
	return nil
}

// Type returns the underlying numeric kind.
func (n *Number) Type() Type {
	if n.typ == InvalidType {
		return UintType
	}
	return n.typ
}

// Int64 returns the value as an int64. Floats convert only when they
// hold an exact integer in range.
func (n *Number) Int64() (int64, error) {
	switch n.typ {
	case IntType:
		return NegIntToInt64(n.bits)
	case FloatType:
		f := math.Float64frombits(n.bits)
		if !n.isExactInt() || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, &TypeError{Expecting: "an integral number", Encoded: FloatType}
		}
		return int64(f), nil
	default:
		return UintToInt64(n.bits)
	}
}

// Uint64 returns the value as a uint64. Negative values are rejected.
func (n *Number) Uint64() (uint64, error) {
	switch n.typ {
	case IntType:
		return 0, &TypeError{Expecting: "a non-negative number", Encoded: IntType}
	case FloatType:
		f := math.Float64frombits(n.bits)
		if !n.isExactInt() || f < 0 || f >= math.MaxUint64 {
			return 0, &TypeError{Expecting: "a non-negative integral number", Encoded: FloatType}
		}
		return uint64(f), nil
	default:
		return n.bits, nil
	}
}

// Float64 returns the value as a float64, rounding large integers.
func (n *Number) Float64() float64 {
	switch n.typ {
	case IntType:
		return -1 - float64(n.bits)
	case FloatType:
		return math.Float64frombits(n.bits)
	default:
		return float64(n.bits)
	}
}

// isExactInt reports whether the stored float value is an exact integer.
func (n *Number) isExactInt() bool {
	const eBits, mBits = 11, 52
	if n.typ != FloatType {
		return true
	}
	exp := int(n.bits>>mBits) & ((1 << eBits) - 1)
	mant := n.bits & ((1 << mBits) - 1)
	if exp == 0 && mant == 0 {
		return true
	}
	exp -= (1 << (eBits - 1)) - 1
	if exp < 0 || exp == 1<<(eBits-1) {
		return false
	}
	if exp >= mBits {
		return true
	}
	return bits.TrailingZeros64(mant) >= mBits-exp
}

// AppendCBOR encodes the number, keeping single precision for floats
// that were decoded from half or single precision.
func (n *Number) AppendCBOR(b []byte) []byte {
	switch {
	case n.typ == IntType:
		return AppendNegInt(b, n.bits)
	case n.typ == FloatType && n.f32:
		return AppendFloat32(b, float32(math.Float64frombits(n.bits)))
	case n.typ == FloatType:
		return AppendFloat64(b, math.Float64frombits(n.bits))
	default:
		return AppendUint64(b, n.bits)
	}
}

// String implements fmt.Stringer.
func (n *Number) String() string {
	switch n.typ {
	case IntType:
		return negIntString(n.bits)
	case FloatType:
		return strconv.FormatFloat(n.Float64(), 'g', -1, 64)
	default:
		return strconv.FormatUint(n.bits, 10)
	}
}

// Package cbor is a streaming decoder for RFC 8949 CBOR.
//
// The decoder walks exactly one data item per call and hands every decoded shape to a
// Visitor. It never builds an intermediate tree; the visitor decides what to keep.
// Input comes from one of three byte sources:
//   - NewDecoderBytes() decodes from a []byte without copying.
//   - NewDecoder() reads exactly the bytes of each item from an io.Reader.
//   - NewBufferedDecoder() reads through a buffered reader for throughput.
//
// Built on top of the visitor are a few ready-made consumers:
//
//	cbor.DecodeValue([]byte)           // generic Go values
//	cbor.DiagBytes([]byte)             // RFC 8949 diagnostic notation
//	cbor.ToJSONBytes([]byte)           // RFC 8949 §6.1 JSON conversion
//	cbor.ValidateWellFormedBytes([]byte)
//
// The AppendXxxx() family encodes values into a []byte and is the inverse of
// DecodeValue.
package cbor

//go:generate go tool stringer -type=MajorType -trimprefix=Major

const (
	// recursionLimit is the hard ceiling for the configurable nesting depth.
	recursionLimit = 100000

	// defaultMaxDepth bounds array, map and tag nesting unless SetMaxDepth says otherwise.
	defaultMaxDepth = 256
)

// MajorType is the 3-bit major type of a CBOR initial byte.
type MajorType uint8

// CBOR major types
const (
	MajorUint   MajorType = 0 // unsigned integer
	MajorNegInt MajorType = 1 // negative integer
	MajorBytes  MajorType = 2 // byte string
	MajorText   MajorType = 3 // text string (UTF-8)
	MajorArray  MajorType = 4 // array
	MajorMap    MajorType = 5 // map
	MajorTag    MajorType = 6 // semantic tag
	MajorSimple MajorType = 7 // float, simple values, break
)

// Additional info values (5 bits)
const (
	// 0-23: literal value
	addInfoDirect     = 23 // max direct value
	addInfoUint8      = 24 // 1-byte uint8 follows
	addInfoUint16     = 25 // 2-byte uint16 follows
	addInfoUint32     = 26 // 4-byte uint32 follows
	addInfoUint64     = 27 // 8-byte uint64 follows
	addInfoIndefinite = 31 // indefinite length (for bytes, text, array, map)
)

// Simple values in major type 7
const (
	simpleFalse     = 20
	simpleTrue      = 21
	simpleNull      = 22
	simpleUndefined = 23
	simpleExtended  = 24
	simpleFloat16   = 25
	simpleFloat32   = 26
	simpleFloat64   = 27
	simpleBreak     = 31

	// simpleMinExtended is the smallest value allowed in the one-byte extension.
	simpleMinExtended = 32
)

// breakByte terminates indefinite-length items.
const breakByte = 0xff

// Tags that change how nested byte strings convert to JSON.
const (
	tagBase64URL = 21
	tagBase64    = 22
	tagBase16    = 23
)

// makeByte creates a CBOR initial byte from major type and additional info
func makeByte(major MajorType, addInfo uint8) byte {
	return byte(major)<<5 | addInfo
}

// getMajorType extracts the major type from a CBOR initial byte
func getMajorType(b byte) MajorType {
	return MajorType(b >> 5)
}

// getAddInfo extracts the additional info from a CBOR initial byte
func getAddInfo(b byte) uint8 {
	return b & 0x1f
}

// Type is the kind of item a visitor receives.
type Type byte

// CBOR Types
const (
	InvalidType Type = iota

	StrType       // text string
	BinType       // byte string
	MapType       // map
	ArrayType     // array
	FloatType     // half, single or double float
	BoolType      // bool
	IntType       // negative integer
	UintType      // unsigned integer
	NilType       // null
	UndefinedType // undefined
	SimpleType    // unassigned simple value
	TagType       // tagged item
)

// String implements fmt.Stringer
func (t Type) String() string {
	switch t {
	case StrType:
		return "str"
	case BinType:
		return "bin"
	case MapType:
		return "map"
	case ArrayType:
		return "array"
	case FloatType:
		return "float"
	case BoolType:
		return "bool"
	case UintType:
		return "uint"
	case IntType:
		return "int"
	case NilType:
		return "nil"
	case UndefinedType:
		return "undefined"
	case SimpleType:
		return "simple"
	case TagType:
		return "tag"
	default:
		return "<invalid>"
	}
}

// typeOf maps an initial byte to the Type a visitor would receive for it.
// The break byte and reserved encodings report InvalidType.
func typeOf(lead byte) Type {
	major, info := getMajorType(lead), getAddInfo(lead)
	if info > addInfoUint64 && info < addInfoIndefinite {
		return InvalidType
	}
	switch major {
	case MajorUint, MajorNegInt, MajorTag:
		if info == addInfoIndefinite {
			return InvalidType
		}
	}
	switch major {
	case MajorUint:
		return UintType
	case MajorNegInt:
		return IntType
	case MajorBytes:
		return BinType
	case MajorText:
		return StrType
	case MajorArray:
		return ArrayType
	case MajorMap:
		return MapType
	case MajorTag:
		return TagType
	}
	switch {
	case info == simpleFalse || info == simpleTrue:
		return BoolType
	case info == simpleNull:
		return NilType
	case info == simpleUndefined:
		return UndefinedType
	case info >= simpleFloat16 && info <= simpleFloat64:
		return FloatType
	case info <= simpleExtended:
		return SimpleType
	default:
		return InvalidType
	}
}

package cbor

import (
	"errors"
	"io"
	"math/big"
	"reflect"
	"strconv"
)

var (
	// ErrUnexpectedEOF is returned when the
	// byte source runs out in the middle of an item.
	// It also matches io.ErrUnexpectedEOF.
	ErrUnexpectedEOF error = errShort{}

	// ErrReservedAdditionalInfo is returned for the reserved additional info values 28-30.
	ErrReservedAdditionalInfo error = errors.New("cbor: reserved additional info")

	// ErrMalformedIndefinite is returned when additional info 31 is used on a major
	// type that has no indefinite-length form.
	ErrMalformedIndefinite error = errors.New("cbor: indefinite length not allowed for major type")

	// ErrChunkTypeMismatch is returned when a chunk of an indefinite-length string is
	// not a definite-length string of the same major type.
	ErrChunkTypeMismatch error = errors.New("cbor: indefinite-length string chunk has wrong type")

	// ErrInvalidUTF8 is returned when a text string contains invalid UTF-8
	ErrInvalidUTF8 error = errors.New("cbor: invalid UTF-8 in text string")

	// ErrUnexpectedBreak is returned when a break byte appears where an item is expected.
	ErrUnexpectedBreak error = errors.New("cbor: unexpected break")

	// ErrTruncatedMapPair is returned when an indefinite-length map ends between a key
	// and its value.
	ErrTruncatedMapPair error = errors.New("cbor: indefinite-length map ends after a key")

	// ErrMaxDepthExceeded is returned when nesting exceeds the decoder's maximum depth.
	// This should only realistically be seen on adversarial data trying to exhaust the stack.
	ErrMaxDepthExceeded error = errors.New("cbor: max depth exceeded")

	// ErrMalformedSimpleValue is returned when the one-byte simple value extension
	// carries a value below 32.
	ErrMalformedSimpleValue error = errors.New("cbor: simple value extension below 32")

	// ErrConsumerRejected is matched by every error that reports a visitor refusing
	// a value: TypeError, IntOverflow, UintOverflow and NegIntOverflow.
	ErrConsumerRejected error = errors.New("cbor: value rejected by consumer")

	// ErrIndefiniteForbidden is returned when an indefinite-length item is present
	// but deterministic decoding forbids it.
	ErrIndefiniteForbidden error = errors.New("cbor: indefinite-length item not allowed in deterministic mode")

	// ErrNonCanonicalInteger is returned when an integer, tag number or simple value
	// is not encoded in the shortest form (strict mode).
	ErrNonCanonicalInteger error = errors.New("cbor: non-canonical integer encoding")

	// ErrNonCanonicalLength is returned when a length (array/map/str/bytes) is not
	// encoded in the shortest form (strict mode).
	ErrNonCanonicalLength error = errors.New("cbor: non-canonical length encoding")

	// ErrNonCanonicalFloat is returned when a float is not encoded in the shortest
	// form that preserves its value (strict mode).
	ErrNonCanonicalFloat error = errors.New("cbor: non-canonical float encoding")

	// ErrContainerTooLarge is returned when a length exceeds the configured limit.
	ErrContainerTooLarge error = errors.New("cbor: container too large")

	// ErrTrailingBytes is returned when a document holds more than one item.
	ErrTrailingBytes error = errors.New("cbor: trailing bytes after item")

	// errIterDone is returned when an iterator is used after its visit returned.
	errIterDone = errors.New("cbor: iterator used outside of its visit")

	// errNoKey is returned when MapIter.Value is called without a pending key.
	errNoKey = errors.New("cbor: map value requested before its key")
)

type errShort struct{}

func (errShort) Error() string { return "cbor: unexpected end of input" }

// Is lets ErrUnexpectedEOF match io.ErrUnexpectedEOF.
func (errShort) Is(target error) bool { return target == io.ErrUnexpectedEOF }

// noEOF converts io.EOF into ErrUnexpectedEOF. Any error that is
// reached in the middle of an item is unexpected.
func noEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEOF
	}
	return err
}

// DecodeError is returned by a failing top-level decode. Offset is
// the position of the initial byte of the innermost item that was being
// decoded when the failure occurred.
type DecodeError struct {
	Offset int64
	Err    error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return e.Err.Error() + " at offset " + strconv.FormatInt(e.Offset, 10)
}

// Unwrap returns the cause.
func (e *DecodeError) Unwrap() error { return e.Err }

// InvalidAdditionalInfoError is returned for an initial byte whose additional
// info is not valid for its major type.
type InvalidAdditionalInfoError struct {
	Major MajorType
	Info  uint8
}

// Error implements the error interface
func (e *InvalidAdditionalInfoError) Error() string {
	return "cbor: invalid additional info " + strconv.Itoa(int(e.Info)) + " for major type " + e.Major.String()
}

// Is matches ErrMalformedIndefinite for info 31 and ErrReservedAdditionalInfo otherwise.
func (e *InvalidAdditionalInfoError) Is(target error) bool {
	if e.Info == addInfoIndefinite {
		return target == ErrMalformedIndefinite
	}
	return target == ErrReservedAdditionalInfo
}

// A TypeError is returned when a visitor
// is handed a kind of item it does not accept.
type TypeError struct {
	Expecting string // the visitor's description of what it accepts
	Encoded   Type   // Type actually encoded
}

// Error implements the error interface
func (t *TypeError) Error() string {
	out := "cbor: unexpected " + strconv.Quote(t.Encoded.String())
	if t.Expecting != "" {
		out += ", expecting " + t.Expecting
	}
	return out
}

// Is matches ErrConsumerRejected.
func (t *TypeError) Is(target error) bool { return target == ErrConsumerRejected }

// IntOverflow is returned when a call
// would downcast an integer to a type
// with too few bits to hold its value.
type IntOverflow struct {
	Value         int64 // the value of the integer
	FailedBitsize int   // the bit size that the int64 could not fit into
}

// Error implements the error interface
func (i IntOverflow) Error() string {
	return "cbor: " + strconv.FormatInt(i.Value, 10) + " overflows int" + strconv.Itoa(i.FailedBitsize)
}

// Is matches ErrConsumerRejected.
func (i IntOverflow) Is(target error) bool { return target == ErrConsumerRejected }

// UintOverflow is returned when a call
// would downcast an unsigned integer to a type
// with too few bits to hold its value
type UintOverflow struct {
	Value         uint64 // value of the uint
	FailedBitsize int    // the bit size that couldn't fit the value
}

// Error implements the error interface
func (u UintOverflow) Error() string {
	return "cbor: " + strconv.FormatUint(u.Value, 10) + " overflows int" + strconv.Itoa(u.FailedBitsize)
}

// Is matches ErrConsumerRejected.
func (u UintOverflow) Is(target error) bool { return target == ErrConsumerRejected }

// NegIntOverflow is returned when a negative integer -1-Arg
// does not fit in an int64.
type NegIntOverflow struct {
	Arg uint64
}

// Error implements the error interface
func (n NegIntOverflow) Error() string {
	return "cbor: " + negIntString(n.Arg) + " overflows int64"
}

// Is matches ErrConsumerRejected.
func (n NegIntOverflow) Is(target error) bool { return target == ErrConsumerRejected }

// negIntString formats -1-n in decimal.
func negIntString(n uint64) string {
	if n < 1<<63 {
		return strconv.FormatInt(-1-int64(n), 10)
	}
	v := new(big.Int).SetUint64(n)
	v.Add(v, big.NewInt(1))
	return v.Neg(v).String()
}

// ErrUnsupportedType is returned when a bad argument is supplied to
// a function that accepts arbitrary values.
type ErrUnsupportedType struct {
	T reflect.Type
}

// Error implements error
func (e *ErrUnsupportedType) Error() string {
	return "cbor: type " + strconv.Quote(e.T.String()) + " not supported"
}

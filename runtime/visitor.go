package cbor

// Visitor receives decoded items. The decoder calls exactly one Visit
// method per item and returns whatever error it reports.
//
// Byte slices passed to VisitBytes are only valid for the duration of
// the call. Iterators passed to VisitArray, VisitMap and VisitTag are
// only valid until the method returns; anything left unread is
// decoded and discarded afterwards.
type Visitor interface {
	// Expecting describes what the visitor accepts, for error messages.
	Expecting() string

	VisitBool(v bool) error
	VisitUint(v uint64) error
	// VisitNegInt receives the argument n of the negative integer -1-n.
	VisitNegInt(n uint64) error
	VisitFloat(f float64) error
	VisitBytes(b []byte) error
	VisitString(s string) error
	VisitArray(a *ArrayIter) error
	VisitMap(m *MapIter) error
	VisitTag(number uint64, c *TagContent) error
	// VisitSimple receives simple values other than false, true, null and undefined.
	VisitSimple(v uint8) error
	VisitNull() error
	VisitUndefined() error
}

// Float32Visitor is implemented by visitors that want half and single
// precision floats without widening them to float64.
type Float32Visitor interface {
	VisitFloat32(f float32) error
}

// ChunkVisitor is implemented by visitors that consume indefinite-length
// strings chunk by chunk instead of as one concatenated value.
type ChunkVisitor interface {
	VisitByteChunks(c *ChunkIter) error
	VisitTextChunks(c *ChunkIter) error
}

// BaseVisitor rejects every kind of item with a *TypeError. Embed it
// and override the methods for the kinds a visitor accepts.
type BaseVisitor struct{}

func unexpected(t Type) error { return &TypeError{Encoded: t} }

func (BaseVisitor) VisitBool(bool) error { return unexpected(BoolType) }
func (BaseVisitor) VisitUint(uint64) error { return unexpected(UintType) }
func (BaseVisitor) VisitNegInt(uint64) error { return unexpected(IntType) }
func (BaseVisitor) VisitFloat(float64) error { return unexpected(FloatType) }
func (BaseVisitor) VisitBytes([]byte) error { return unexpected(BinType) }
func (BaseVisitor) VisitString(string) error { return unexpected(StrType) }
func (BaseVisitor) VisitArray(*ArrayIter) error { return unexpected(ArrayType) }
func (BaseVisitor) VisitMap(*MapIter) error { return unexpected(MapType) }
func (BaseVisitor) VisitTag(uint64, *TagContent) error { return unexpected(TagType) }
func (BaseVisitor) VisitSimple(uint8) error { return unexpected(SimpleType) }
func (BaseVisitor) VisitNull() error { return unexpected(NilType) }
func (BaseVisitor) VisitUndefined() error { return unexpected(UndefinedType) }

// discard accepts and drops everything.
type discard struct{}

func (discard) Expecting() string { return "any item" }
func (discard) VisitBool(bool) error { return nil }
func (discard) VisitUint(uint64) error { return nil }
func (discard) VisitNegInt(uint64) error { return nil }
func (discard) VisitFloat(float64) error { return nil }
func (discard) VisitBytes([]byte) error { return nil }
func (discard) VisitString(string) error { return nil }
func (discard) VisitArray(*ArrayIter) error { return nil }
func (discard) VisitMap(*MapIter) error { return nil }
func (discard) VisitTag(uint64, *TagContent) error { return nil }
func (discard) VisitSimple(uint8) error { return nil }
func (discard) VisitNull() error { return nil }
func (discard) VisitUndefined() error { return nil }
func (discard) VisitByteChunks(*ChunkIter) error { return nil }
func (discard) VisitTextChunks(*ChunkIter) error { return nil }

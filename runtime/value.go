package cbor

// Generic values produced by DecodeValue and accepted by AppendValue.
//
//	unsigned integer   uint64
//	negative integer   int64, or NegInt when below math.MinInt64
//	float              float64
//	byte string        []byte
//	text string        string
//	array              []any
//	map                Map
//	tag                Tag
//	false, true        bool
//	null               nil
//	undefined          Undefined
//	other simple       Simple
type (
	// NegInt is the negative integer -1-n for arguments n beyond the int64 range.
	NegInt uint64

	// Simple is an unassigned simple value.
	Simple uint8

	// Undefined is the undefined simple value.
	Undefined struct{}

	// Tag is a tag number and the item it tags.
	Tag struct {
		Number  uint64
		Content any
	}

	// Pair is one key/value entry of a Map.
	Pair struct {
		Key   any
		Value any
	}

	// Map keeps pairs in stream order, duplicates included.
	Map []Pair
)

// Get returns the value of the first pair whose key is the text string key.
func (m Map) Get(key string) (any, bool) {
	for _, p := range m {
		if k, ok := p.Key.(string); ok && k == key {
			return p.Value, true
		}
	}
	return nil, false
}

// DecodeValue decodes the first item in b into a generic value and
// returns the bytes that follow it.
func DecodeValue(b []byte) (any, []byte, error) {
	var v valueVisitor
	rest, err := DecodeBytes(b, &v)
	if err != nil {
		return nil, b, err
	}
	return v.out, rest, nil
}

// DecodeValue decodes the next item into a generic value.
func (d *Decoder) DecodeValue() (any, error) {
	var v valueVisitor
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	return v.out, nil
}

// preallocLimit caps capacity reserved from a declared length before
// the elements have actually been read.
const preallocLimit = 1024

type valueVisitor struct {
	out any
}

func (*valueVisitor) Expecting() string { return "any CBOR item" }

func (v *valueVisitor) VisitBool(b bool) error { v.out = b; return nil }
func (v *valueVisitor) VisitUint(u uint64) error { v.out = u; return nil }
func (v *valueVisitor) VisitFloat(f float64) error {
	v.out = f
	return nil
}

func (v *valueVisitor) VisitNegInt(n uint64) error {
	if i, err := NegIntToInt64(n); err == nil {
		v.out = i
	} else {
		v.out = NegInt(n)
	}
	return nil
}

func (v *valueVisitor) VisitBytes(b []byte) error {
	v.out = append([]byte{}, b...)
	return nil
}

func (v *valueVisitor) VisitString(s string) error { v.out = s; return nil }

func (v *valueVisitor) VisitArray(a *ArrayIter) error {
	n, _ := a.Len()
	out := make([]any, 0, min(n, preallocLimit))
	for {
		var e valueVisitor
		more, err := a.Next(&e)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		out = append(out, e.out)
	}
	v.out = out
	return nil
}

func (v *valueVisitor) VisitMap(m *MapIter) error {
	n, _ := m.Len()
	out := make(Map, 0, min(n, preallocLimit))
	for {
		var key, val valueVisitor
		more, err := m.Next(&key, &val)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		out = append(out, Pair{Key: key.out, Value: val.out})
	}
	v.out = out
	return nil
}

func (v *valueVisitor) VisitTag(number uint64, c *TagContent) error {
	var e valueVisitor
	if err := c.Decode(&e); err != nil {
		return err
	}
	v.out = Tag{Number: number, Content: e.out}
	return nil
}

func (v *valueVisitor) VisitSimple(s uint8) error { v.out = Simple(s); return nil }
func (v *valueVisitor) VisitNull() error { v.out = nil; return nil }
func (v *valueVisitor) VisitUndefined() error { v.out = Undefined{}; return nil }

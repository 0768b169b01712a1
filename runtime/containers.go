package cbor

// seq tracks position within an array or map.
type seq struct {
	d          *Decoder
	n          uint64 // declared length, in items or pairs
	count      uint64
	indefinite bool
	done       bool
	err        error
}

// Len returns the declared length, or false for an indefinite-length container.
func (s *seq) Len() (uint64, bool) { return s.n, !s.indefinite }

// advance reports whether another element follows, consuming the break
// byte that ends an indefinite-length container.
func (s *seq) advance() (bool, error) {
	switch {
	case s.d == nil:
		return false, errIterDone
	case s.err != nil:
		return false, s.err
	case s.done:
		return false, nil
	}
	if s.indefinite {
		b, err := s.d.src.peekByte()
		if err != nil {
			return false, s.fail(noEOF(err))
		}
		if b == breakByte {
			_, _ = s.d.src.readByte()
			s.done = true
			return false, nil
		}
		if s.d.overLimit(s.count + 1) {
			return false, s.fail(ErrContainerTooLarge)
		}
	} else if s.count == s.n {
		s.done = true
		return false, nil
	}
	s.count++
	return true, nil
}

func (s *seq) item(v Visitor) error {
	if err := s.d.decodeItem(v); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *seq) fail(err error) error {
	s.err = err
	return err
}

func (s *seq) close() { s.d = nil }

// ArrayIter pulls the elements of an array one at a time.
type ArrayIter struct {
	seq
}

// Next decodes the next element into v. It returns false after the
// last element.
func (a *ArrayIter) Next(v Visitor) (bool, error) {
	more, err := a.advance()
	if !more || err != nil {
		return false, err
	}
	if err := a.item(v); err != nil {
		return false, err
	}
	return true, nil
}

func (a *ArrayIter) drain() error {
	for {
		more, err := a.Next(discard{})
		if !more || err != nil {
			return err
		}
	}
}

// decodeArray handles major type 4.
func (d *Decoder) decodeArray(h header, v Visitor) error {
	if !h.indefinite && d.overLimit(h.arg) {
		return ErrContainerTooLarge
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	a := &ArrayIter{seq{d: d, n: h.arg, indefinite: h.indefinite}}
	defer a.close()
	if err := v.VisitArray(a); err != nil {
		return err
	}
	return a.drain()
}

// MapIter pulls the pairs of a map one at a time, key before value.
// Duplicate keys are passed through in stream order.
type MapIter struct {
	seq
	pending bool
}

// NextKey decodes the next key into k. It returns false after the last
// pair. If the previous key's value was never requested, that value is
// skipped first.
func (m *MapIter) NextKey(k Visitor) (bool, error) {
	if m.pending {
		if err := m.Value(discard{}); err != nil {
			return false, err
		}
	}
	more, err := m.advance()
	if !more || err != nil {
		return false, err
	}
	if err := m.item(k); err != nil {
		return false, err
	}
	m.pending = true
	return true, nil
}

// Value decodes the value belonging to the key last returned by NextKey.
func (m *MapIter) Value(v Visitor) error {
	switch {
	case m.d == nil:
		return errIterDone
	case m.err != nil:
		return m.err
	case !m.pending:
		return errNoKey
	}
	m.pending = false
	if m.indefinite {
		b, err := m.d.src.peekByte()
		if err != nil {
			return m.fail(noEOF(err))
		}
		if b == breakByte {
			return m.fail(ErrTruncatedMapPair)
		}
	}
	return m.item(v)
}

// Next decodes the next key into k and its value into v.
func (m *MapIter) Next(k, v Visitor) (bool, error) {
	more, err := m.NextKey(k)
	if !more || err != nil {
		return false, err
	}
	if err := m.Value(v); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MapIter) drain() error {
	for {
		more, err := m.Next(discard{}, discard{})
		if !more || err != nil {
			return err
		}
	}
}

// decodeMap handles major type 5.
func (d *Decoder) decodeMap(h header, v Visitor) error {
	if !h.indefinite && d.overLimit(h.arg) {
		return ErrContainerTooLarge
	}
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	m := &MapIter{seq: seq{d: d, n: h.arg, indefinite: h.indefinite}}
	defer m.close()
	if err := v.VisitMap(m); err != nil {
		return err
	}
	return m.drain()
}

package cbor

// readPayload reads the payload of a definite-length string.
func (d *Decoder) readPayload(h header) ([]byte, error) {
	if d.overLimit(h.arg) {
		return nil, ErrContainerTooLarge
	}
	p, err := d.src.next(h.arg)
	if err != nil {
		return nil, noEOF(err)
	}
	return p, nil
}

// decodeString handles major types 2 and 3.
func (d *Decoder) decodeString(h header, v Visitor) error {
	if !h.indefinite {
		p, err := d.readPayload(h)
		if err != nil {
			return err
		}
		if h.major == MajorBytes {
			return v.VisitBytes(p)
		}
		if !isUTF8Valid(p) {
			return ErrInvalidUTF8
		}
		return v.VisitString(string(p))
	}

	c := &ChunkIter{d: d, major: h.major}
	defer c.close()
	if cv, ok := v.(ChunkVisitor); ok {
		var err error
		if h.major == MajorBytes {
			err = cv.VisitByteChunks(c)
		} else {
			err = cv.VisitTextChunks(c)
		}
		if err != nil {
			return err
		}
		return c.drain()
	}

	buf := GetByteBuffer()
	defer PutByteBuffer(buf)
	for {
		p, ok, err := c.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if d.overLimit(uint64(buf.Len()) + uint64(len(p))) {
			return ErrContainerTooLarge
		}
		buf.Write(p)
	}
	if h.major == MajorBytes {
		return v.VisitBytes(buf.Bytes())
	}
	return v.VisitString(string(buf.Bytes()))
}

// ChunkIter walks the chunks of an indefinite-length string.
type ChunkIter struct {
	d     *Decoder
	major MajorType
	done  bool
	err   error
	carry utf8Carry
}

// Text reports whether the chunks belong to a text string.
func (c *ChunkIter) Text() bool { return c.major == MajorText }

// Next returns the next chunk, or false once the break byte has been
// read. The slice is only valid until the following call to Next.
// Text chunks are validated according to the decoder's TextValidation;
// under ValidateReassembled a chunk may end inside a character.
func (c *ChunkIter) Next() ([]byte, bool, error) {
	switch {
	case c.d == nil:
		return nil, false, errIterDone
	case c.err != nil:
		return nil, false, c.err
	case c.done:
		return nil, false, nil
	}
	h, err := c.d.readHeader()
	if err != nil {
		return c.fail(err)
	}
	if h.isBreak() {
		c.done = true
		if !c.carry.complete() {
			return c.fail(ErrInvalidUTF8)
		}
		return nil, false, nil
	}
	if h.major != c.major || h.indefinite {
		return c.fail(ErrChunkTypeMismatch)
	}
	p, err := c.d.readPayload(h)
	if err != nil {
		return c.fail(err)
	}
	if c.major == MajorText {
		var ok bool
		if c.d.text == ValidateEachChunk {
			ok = isUTF8Valid(p)
		} else {
			ok = c.carry.feed(p)
		}
		if !ok {
			return c.fail(ErrInvalidUTF8)
		}
	}
	return p, true, nil
}

func (c *ChunkIter) fail(err error) ([]byte, bool, error) {
	c.err = err
	return nil, false, err
}

// drain consumes the chunks the visitor left unread.
func (c *ChunkIter) drain() error {
	for {
		_, ok, err := c.Next()
		if err != nil || !ok {
			return err
		}
	}
}

func (c *ChunkIter) close() { c.d = nil }

package cbor

import (
	"io"
	"slices"

	"github.com/philhofer/fwd"
)

// source is the byte cursor the decoder walks. readByte and peekByte
// return io.EOF when nothing is left; next returns io.ErrUnexpectedEOF
// when fewer than n bytes are available. The slice returned by next is
// only valid until the following call on the source.
type source interface {
	readByte() (byte, error)
	peekByte() (byte, error)
	next(n uint64) ([]byte, error)
	offset() int64
}

// growStep bounds how much memory a single read commits before the
// bytes actually arrive, so a forged length cannot force a huge
// allocation up front.
const growStep = 64 << 10

// readFull appends to buf from r until it holds n bytes, growing buf
// in growStep increments. Running out of input is io.ErrUnexpectedEOF;
// any other read error is returned as is.
func readFull(r io.Reader, buf []byte, n uint64) ([]byte, error) {
	for uint64(len(buf)) < n {
		step := min(n-uint64(len(buf)), growStep)
		l := len(buf)
		buf = slices.Grow(buf, int(step))[:l+int(step)]
		m, err := io.ReadFull(r, buf[l:])
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return buf[:l+m], err
		}
	}
	return buf, nil
}

// sliceSource walks an in-memory buffer without copying.
type sliceSource struct {
	buf []byte
	pos int
}

func (s *sliceSource) readByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	b := s.buf[s.pos]
	s.pos++
	return b, nil
}

func (s *sliceSource) peekByte() (byte, error) {
	if s.pos >= len(s.buf) {
		return 0, io.EOF
	}
	return s.buf[s.pos], nil
}

func (s *sliceSource) next(n uint64) ([]byte, error) {
	if n > uint64(len(s.buf)-s.pos) {
		s.pos = len(s.buf)
		return nil, io.ErrUnexpectedEOF
	}
	end := s.pos + int(n)
	p := s.buf[s.pos:end:end]
	s.pos = end
	return p, nil
}

func (s *sliceSource) offset() int64 { return int64(s.pos) }

// streamSource reads from an io.Reader and never consumes a byte past
// the end of the current item, apart from a single peeked byte that is
// kept in the source.
type streamSource struct {
	r       io.Reader
	n       int64
	peeked  bool
	pb      byte
	one     [1]byte
	scratch []byte
}

func (s *streamSource) fill() (byte, error) {
	if s.peeked {
		return s.pb, nil
	}
	if _, err := io.ReadFull(s.r, s.one[:]); err != nil {
		return 0, err
	}
	s.pb, s.peeked = s.one[0], true
	return s.pb, nil
}

func (s *streamSource) readByte() (byte, error) {
	b, err := s.fill()
	if err != nil {
		return 0, err
	}
	s.peeked = false
	s.n++
	return b, nil
}

func (s *streamSource) peekByte() (byte, error) { return s.fill() }

func (s *streamSource) next(n uint64) ([]byte, error) {
	if n == 0 {
		return s.scratch[:0], nil
	}
	buf := s.scratch[:0]
	if s.peeked {
		s.peeked = false
		buf = append(buf, s.pb)
	}
	p, err := readFull(s.r, buf, n)
	s.scratch = p[:0]
	s.n += int64(len(p))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *streamSource) offset() int64 { return s.n }

// fwdSource reads through a fwd.Reader. Items that fit in the reader's
// buffer are returned without copying.
type fwdSource struct {
	r       *fwd.Reader
	n       int64
	scratch []byte
}

func (s *fwdSource) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, err
	}
	s.n++
	return b, nil
}

func (s *fwdSource) peekByte() (byte, error) {
	p, err := s.r.Peek(1)
	if len(p) == 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	return p[0], nil
}

func (s *fwdSource) next(n uint64) ([]byte, error) {
	if n <= uint64(s.r.BufferSize()) {
		p, err := s.r.Next(int(n))
		if err != nil {
			return nil, noEOF(err)
		}
		s.n += int64(n)
		return p, nil
	}
	p, err := readFull(s.r, s.scratch[:0], n)
	s.scratch = p[:0]
	s.n += int64(len(p))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *fwdSource) offset() int64 { return s.n }

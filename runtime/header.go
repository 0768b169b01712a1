package cbor

import "encoding/binary"

// header is a decoded initial byte plus its argument.
type header struct {
	major      MajorType
	info       uint8
	arg        uint64
	indefinite bool
}

// isBreak reports whether h is the 0xff stop code.
func (h header) isBreak() bool { return h.major == MajorSimple && h.indefinite }

// minArgument is the smallest argument that needs the width selected by
// additional info 24..27; anything smaller has a shorter encoding.
var minArgument = [4]uint64{addInfoUint8, 1 << 8, 1 << 16, 1 << 32}

// readHeader consumes an initial byte and its argument bytes.
func (d *Decoder) readHeader() (header, error) {
	d.head = d.src.offset()
	lead, err := d.src.readByte()
	if err != nil {
		return header{}, noEOF(err)
	}
	h := header{major: getMajorType(lead), info: getAddInfo(lead)}
	switch {
	case h.info <= addInfoDirect:
		h.arg = uint64(h.info)
	case h.info <= addInfoUint64:
		p, err := d.src.next(1 << (h.info - addInfoUint8))
		if err != nil {
			return h, noEOF(err)
		}
		switch len(p) {
		case 1:
			h.arg = uint64(p[0])
		case 2:
			h.arg = uint64(binary.BigEndian.Uint16(p))
		case 4:
			h.arg = uint64(binary.BigEndian.Uint32(p))
		default:
			h.arg = binary.BigEndian.Uint64(p)
		}
		// Floats have their own shortest-form rule, checked by the scalar path.
		if d.strict && h.major != MajorSimple && h.arg < minArgument[h.info-addInfoUint8] {
			switch h.major {
			case MajorBytes, MajorText, MajorArray, MajorMap:
				return h, ErrNonCanonicalLength
			default:
				return h, ErrNonCanonicalInteger
			}
		}
	case h.info == addInfoIndefinite:
		switch h.major {
		case MajorBytes, MajorText, MajorArray, MajorMap:
			if d.deterministic {
				return h, ErrIndefiniteForbidden
			}
			h.indefinite = true
		case MajorSimple:
			h.indefinite = true
		default:
			return h, &InvalidAdditionalInfoError{Major: h.major, Info: h.info}
		}
	default:
		return h, &InvalidAdditionalInfoError{Major: h.major, Info: h.info}
	}
	return h, nil
}

package cbor

import "errors"

var errTagContentUsed = errors.New("cbor: tag content already decoded")

// TagContent is the single item that follows a tag number.
type TagContent struct {
	d    *Decoder
	used bool
	err  error
}

// Decode decodes the tagged item into v. It may be called once.
func (t *TagContent) Decode(v Visitor) error {
	switch {
	case t.d == nil:
		return errIterDone
	case t.used:
		return errTagContentUsed
	}
	t.used = true
	t.err = t.d.decodeItem(v)
	return t.err
}

// decodeTag handles major type 6. No tag number is interpreted here.
func (d *Decoder) decodeTag(h header, v Visitor) error {
	if err := d.enter(); err != nil {
		return err
	}
	defer d.leave()
	t := &TagContent{d: d}
	defer func() { t.d = nil }()
	if err := v.VisitTag(h.arg, t); err != nil {
		return err
	}
	if !t.used {
		return t.Decode(discard{})
	}
	return t.err
}

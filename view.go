package fieldset

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// View pairs a record with a Mask. Every operation on a View skips the
// fields its mask excludes. Changes made through a View are changes to
// the record.
type View[R any] struct {
	reg  *Registry[R]
	rec  *R
	mask Mask
}

// View returns a view of rec restricted by m. A mask built for a different
// field count is resized to this registry.
func (r *Registry[R]) View(rec *R, m Mask) *View[R] {
	return &View[R]{reg: r, rec: rec, mask: m.sized(len(r.fields))}
}

// Registry returns the registry the view was created from.
func (v *View[R]) Registry() *Registry[R] { return v.reg }

// Record returns the viewed record.
func (v *View[R]) Record() *R { return v.rec }

// Mask returns the current mask.
func (v *View[R]) Mask() Mask { return v.mask }

// SetMask replaces the mask.
func (v *View[R]) SetMask(m Mask) { v.mask = m.sized(len(v.reg.fields)) }

// Fields yields the included fields with their indexes.
func (v *View[R]) Fields() iter.Seq2[int, Field[R]] { return v.reg.included(v.mask) }

// headerSize is the length byte plus the packed mask when it excludes anything.
func (v *View[R]) headerSize() int {
	if v.mask.None() {
		return 1
	}
	return 1 + v.mask.EncodedLen()
}

// Size returns the encoded size: header plus the included fields.
func (v *View[R]) Size() int { return v.headerSize() + v.FieldsSize() }

// Encode writes the mask header followed by the included fields.
func (v *View[R]) Encode(buf []byte) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	off := 1
	if v.mask.None() {
		buf[0] = 0
	} else {
		n := v.mask.EncodedLen()
		if n > maxLen {
			return 0, fmt.Errorf("%w: mask of %d bytes", ErrTooLong, n)
		}
		buf[0] = byte(n)
		k, err := v.mask.encode(buf[1:])
		if err != nil {
			return 0, err
		}
		off += k
	}
	n, err := v.EncodeFields(buf[off:])
	return off + n, err
}

// Decode reads a mask header and the fields it includes. The received mask
// replaces the view's mask and excluded fields keep their values.
func (v *View[R]) Decode(buf []byte) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	n := int(buf[0])
	if len(buf) < 1+n {
		return 0, shortBuffer(1+n, len(buf))
	}
	if n == 0 {
		v.mask = NewMask(len(v.reg.fields))
	} else {
		v.mask = decodeMask(buf[1:1+n], len(v.reg.fields))
	}
	k, err := v.DecodeFields(buf[1+n:])
	return 1 + n + k, err
}

// FieldsSize returns the encoded size of the included fields alone.
func (v *View[R]) FieldsSize() int { return v.reg.size(v.rec, v.mask) }

// EncodeFields writes the included fields without a header.
func (v *View[R]) EncodeFields(buf []byte) (int, error) {
	return v.reg.encodeFields(buf, v.rec, v.mask)
}

// DecodeFields reads the included fields without a header.
func (v *View[R]) DecodeFields(buf []byte) (int, error) {
	return v.reg.decodeFields(buf, v.rec, v.mask, true)
}

// MarshalBinary returns the header and included fields in a new buffer.
func (v *View[R]) MarshalBinary() ([]byte, error) {
	start := time.Now()
	buf := make([]byte, v.Size())
	n, err := v.Encode(buf)
	emitEncodeComplete(context.Background(), v.reg.typeName, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// UnmarshalBinary decodes data into the viewed record.
func (v *View[R]) UnmarshalBinary(data []byte) error {
	start := time.Now()
	n, err := v.Decode(data)
	emitDecodeComplete(context.Background(), v.reg.typeName, n, time.Since(start), err)
	return err
}

// Equal compares the included fields with other.
func (v *View[R]) Equal(other *R) bool { return v.reg.equal(v.rec, other, v.mask) }

// IsDefault reports whether every included field holds its default.
func (v *View[R]) IsDefault() bool { return v.reg.isDefault(v.rec, v.mask) }

// NonDefault returns the included fields that differ from their defaults.
func (v *View[R]) NonDefault() []string { return v.reg.nonDefault(v.rec, v.mask) }

// Diff returns the included fields that differ from other.
func (v *View[R]) Diff(other *R) []string { return v.reg.diff(v.rec, other, v.mask) }

// Differences describes the included fields that differ from other.
func (v *View[R]) Differences(other *R) string {
	return v.reg.differences(v.rec, other, v.mask)
}

// WriteText writes the included fields as one document.
func (v *View[R]) WriteText(e *TextEncoder) error {
	return v.reg.writeDocument(e, v.rec, v.mask)
}

// ReadText reads one document. Lines of excluded fields are skipped.
func (v *View[R]) ReadText(d *TextDecoder) error {
	return v.reg.readDocument(d, v.rec, v.mask)
}

// MarshalText returns the included fields as a text document.
func (v *View[R]) MarshalText() ([]byte, error) {
	var w textWriter
	v.reg.writeFields(&w, v.rec, v.mask, 0)
	return []byte(w.document()), nil
}

// UnmarshalText reads the first document of text. Empty text is an empty
// document.
func (v *View[R]) UnmarshalText(text []byte) error {
	return firstDocument(v.ReadText(NewTextDecoderString(string(text))))
}

// FatView is a View that owns its record, initialised to the defaults.
// A FatView must not be copied.
type FatView[R any] struct {
	View[R]
	record R
}

// NewFatView returns a view of a new default record.
func (r *Registry[R]) NewFatView(m Mask) *FatView[R] {
	fv := &FatView[R]{}
	r.Reset(&fv.record)
	fv.View = View[R]{reg: r, rec: &fv.record, mask: m.sized(len(r.fields))}
	return fv
}

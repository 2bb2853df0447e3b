package fieldset

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Field describes one registered field of record type R.
//
// A Field owns no data. It reaches the field inside a record through a
// typed accessor and delegates every operation to the field's ValueCodec.
// Fields are immutable once their registry is built.
type Field[R any] interface {
	// Name returns the field name used in text and documents.
	Name() string

	// Description returns the human readable field description.
	Description() string

	// Index returns the position of the field in declaration order.
	Index() int

	// Type returns the Go type of the field value.
	Type() reflect.Type

	// Value returns a copy of the field value in rec.
	Value(rec *R) any

	// Pointer returns a pointer to the field inside rec.
	Pointer(rec *R) any

	// SetValue assigns v, which must be of the field type or a pointer to it.
	SetValue(rec *R, v any) error

	IsDefault(rec *R) bool
	Differs(a, b *R) bool

	Size(rec *R) int
	Encode(buf []byte, rec *R) (int, error)
	Decode(buf []byte, rec *R) (int, error)

	// Text returns the text form of the field value.
	Text(rec *R) string

	// DefaultText returns the text form of the default value.
	DefaultText() string

	// SetText parses s into the field.
	SetText(rec *R, s string) error

	// Values returns the value names of enum fields and nil otherwise.
	Values() []string

	// Reset restores the default value.
	Reset(rec *R)

	// Copy copies the field from src to dst.
	Copy(dst, src *R)

	// Export returns the field value as a generic document value.
	Export(rec *R) any

	// Import sets the field from a generic document value.
	Import(rec *R, x any) error

	block() bool
	writeText(w *textWriter, rec *R, depth int)
	readBlock(d *TextDecoder, rec *R, level int) error
	addr(rec *R) uintptr
	bind(index int, tagDesc string) Field[R]
}

// FieldSpec declares a field for Define.
type FieldSpec[R any] struct {
	field Field[R]
}

// Spec declares a field of R named name. access must return the address of
// the field inside the record it is given.
func Spec[R, V any](name string, access func(*R) *V, codec ValueCodec[V], def V, desc string) FieldSpec[R] {
	return FieldSpec[R]{field: &field[R, V]{
		name:   name,
		desc:   desc,
		access: access,
		codec:  codec,
		def:    def,
	}}
}

// field is the Field implementation for value type V.
type field[R, V any] struct {
	name   string
	desc   string
	index  int
	access func(*R) *V
	codec  ValueCodec[V]
	def    V
}

// blockCodec is implemented by codecs written as an indented text block.
type blockCodec[V any] interface {
	writeBlock(w *textWriter, v *V, depth int)
	readBlock(d *TextDecoder, v *V, level int) error
}

func (f *field[R, V]) Name() string        { return f.name }
func (f *field[R, V]) Description() string { return f.desc }
func (f *field[R, V]) Index() int          { return f.index }
func (f *field[R, V]) Type() reflect.Type  { return reflect.TypeFor[V]() }

func (f *field[R, V]) Value(rec *R) any {
	var v V
	f.codec.Copy(&v, f.access(rec))
	return v
}

func (f *field[R, V]) Pointer(rec *R) any { return f.access(rec) }

func (f *field[R, V]) SetValue(rec *R, v any) error {
	switch x := v.(type) {
	case V:
		f.codec.Copy(f.access(rec), &x)
	case *V:
		if x == nil {
			return newFieldError("set", f.name, fmt.Errorf("%w: nil %s", ErrType, f.Type()))
		}
		f.codec.Copy(f.access(rec), x)
	default:
		return newFieldError("set", f.name, fmt.Errorf("%w: cannot use %T as %s", ErrType, v, f.Type()))
	}
	return nil
}

func (f *field[R, V]) IsDefault(rec *R) bool {
	return f.codec.Equal(f.access(rec), &f.def)
}

func (f *field[R, V]) Differs(a, b *R) bool {
	return !f.codec.Equal(f.access(a), f.access(b))
}

func (f *field[R, V]) Size(rec *R) int { return f.codec.Size(f.access(rec)) }

func (f *field[R, V]) Encode(buf []byte, rec *R) (int, error) {
	n, err := f.codec.Encode(buf, f.access(rec))
	if err != nil {
		return n, newFieldError("encode", f.name, err)
	}
	return n, nil
}

func (f *field[R, V]) Decode(buf []byte, rec *R) (int, error) {
	n, err := f.codec.Decode(buf, f.access(rec))
	if err != nil {
		return n, newFieldError("decode", f.name, err)
	}
	return n, nil
}

func (f *field[R, V]) Text(rec *R) string { return f.codec.Format(f.access(rec)) }

func (f *field[R, V]) DefaultText() string { return f.codec.Format(&f.def) }

func (f *field[R, V]) SetText(rec *R, s string) error {
	if err := f.codec.Parse(s, f.access(rec)); err != nil {
		return newFieldError("parse", f.name, err)
	}
	return nil
}

func (f *field[R, V]) Values() []string {
	if l, ok := f.codec.(valueLister); ok {
		return l.Values()
	}
	return nil
}

func (f *field[R, V]) Reset(rec *R) { f.codec.Copy(f.access(rec), &f.def) }

func (f *field[R, V]) Copy(dst, src *R) { f.codec.Copy(f.access(dst), f.access(src)) }

func (f *field[R, V]) Export(rec *R) any { return f.codec.Export(f.access(rec)) }

func (f *field[R, V]) Import(rec *R, x any) error {
	if err := f.codec.Import(x, f.access(rec)); err != nil {
		return newFieldError("import", f.name, err)
	}
	return nil
}

func (f *field[R, V]) block() bool {
	_, ok := f.codec.(blockCodec[V])
	return ok
}

func (f *field[R, V]) writeText(w *textWriter, rec *R, depth int) {
	if b, ok := f.codec.(blockCodec[V]); ok {
		w.open(depth, f.name)
		b.writeBlock(w, f.access(rec), depth+1)
		return
	}
	w.member(depth, f.name, f.codec.Format(f.access(rec)))
}

func (f *field[R, V]) readBlock(d *TextDecoder, rec *R, level int) error {
	b, ok := f.codec.(blockCodec[V])
	if !ok {
		return newFieldError("parse", f.name, fmt.Errorf("%w: missing value", ErrSyntax))
	}
	return b.readBlock(d, f.access(rec), level)
}

func (f *field[R, V]) addr(rec *R) uintptr {
	return uintptr(unsafe.Pointer(f.access(rec)))
}

// bind returns a copy of f placed at index. tagDesc fills an empty description.
func (f *field[R, V]) bind(index int, tagDesc string) Field[R] {
	c := *f
	c.index = index
	if c.desc == "" {
		c.desc = tagDesc
	}
	return &c
}

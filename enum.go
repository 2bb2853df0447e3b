package fieldset

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/exp/constraints"
)

// EnumMeta describes an enumerated type: its name and its value names in
// declaration order.
type EnumMeta interface {
	TypeName() string
	Names() []string
}

// EnumInfo holds the declared values and names of an integer enum type E.
type EnumInfo[E constraints.Integer] struct {
	name   string
	values []E
	names  []string
	index  map[string]E
}

// NewEnum declares an enum whose values are 0..len(names)-1 in order.
func NewEnum[E constraints.Integer](typeName string, names ...string) *EnumInfo[E] {
	values := make([]E, len(names))
	for i := range names {
		values[i] = E(i)
	}
	return NewEnumValues(typeName, values, names)
}

// NewEnumValues declares an enum with explicit values. It panics if values
// and names differ in length or a name repeats.
func NewEnumValues[E constraints.Integer](typeName string, values []E, names []string) *EnumInfo[E] {
	if len(values) != len(names) {
		panic(fmt.Sprintf("fieldset: enum %s has %d values and %d names", typeName, len(values), len(names)))
	}
	info := &EnumInfo[E]{
		name:   typeName,
		values: append([]E(nil), values...),
		names:  append([]string(nil), names...),
		index:  make(map[string]E, len(names)),
	}
	for i, n := range names {
		if _, dup := info.index[n]; dup {
			panic(fmt.Sprintf("fieldset: enum %s repeats name %s", typeName, n))
		}
		info.index[n] = values[i]
	}
	return info
}

// TypeName returns the enum type name.
func (e *EnumInfo[E]) TypeName() string { return e.name }

// Names returns the value names in declaration order.
func (e *EnumInfo[E]) Names() []string { return append([]string(nil), e.names...) }

// Values returns the declared values in declaration order.
func (e *EnumInfo[E]) Values() []E { return append([]E(nil), e.values...) }

// Name returns the name of v.
func (e *EnumInfo[E]) Name(v E) (string, bool) {
	for i, x := range e.values {
		if x == v {
			return e.names[i], true
		}
	}
	return "", false
}

// String returns the name of v, or its number when v is not declared.
func (e *EnumInfo[E]) String(v E) string {
	if n, ok := e.Name(v); ok {
		return n
	}
	return Integer[E]().Format(&v)
}

// Lookup resolves a value name. The name may carry a "Type::" or "Type."
// prefix; a declared numeric value is accepted too.
func (e *EnumInfo[E]) Lookup(s string) (E, bool) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{"::", "."} {
		if rest, ok := strings.CutPrefix(s, e.name+sep); ok {
			s = rest
			break
		}
	}
	if v, ok := e.index[s]; ok {
		return v, true
	}
	var v E
	if err := Integer[E]().Parse(s, &v); err == nil {
		if _, ok := e.Name(v); ok {
			return v, true
		}
	}
	return 0, false
}

// byteSized reports whether every declared value lies in [0,255].
func (e *EnumInfo[E]) byteSized() bool {
	for _, v := range e.values {
		if v < 0 || uint64(v) > 255 {
			return false
		}
	}
	return true
}

// enumCodec encodes declared enum values on the narrowest declared width.
type enumCodec[E constraints.Integer] struct {
	info *EnumInfo[E]
	raw  integerCodec[E]
}

// Enum returns the codec for an enum type. The wire width is one byte when
// every declared value lies in [0,255], else the full width of E.
func Enum[E constraints.Integer](info *EnumInfo[E]) ValueCodec[E] {
	raw := Integer[E]().(integerCodec[E])
	if info.byteSized() {
		raw.width = 1
	}
	return enumCodec[E]{info: info, raw: raw}
}

// Values lists the enum value names.
func (c enumCodec[E]) Values() []string { return c.info.Names() }

func (c enumCodec[E]) Size(v *E) int { return c.raw.Size(v) }

// Encode writes v at the enum's wire width. An undeclared value is written as
// is when it fits, and a value outside the one byte range of a byte sized enum
// is ErrOverflow.
func (c enumCodec[E]) Encode(buf []byte, v *E) (int, error) {
	if c.raw.width == 1 && (*v < 0 || uint64(*v) > 255) {
		return 0, fmt.Errorf("%w: %s value %d does not fit one byte", ErrOverflow, c.info.name, *v)
	}
	return c.raw.Encode(buf, v)
}

func (c enumCodec[E]) Decode(buf []byte, v *E) (int, error) { return c.raw.Decode(buf, v) }

func (c enumCodec[E]) Equal(a, b *E) bool { return *a == *b }

func (c enumCodec[E]) Copy(dst, src *E) { *dst = *src }

func (c enumCodec[E]) Format(v *E) string { return c.info.String(*v) }

func (c enumCodec[E]) Parse(s string, v *E) error {
	x, ok := c.info.Lookup(s)
	if !ok {
		return fmt.Errorf("%w: %q is not a value of %s", ErrSyntax, s, c.info.name)
	}
	*v = x
	return nil
}

func (c enumCodec[E]) Export(v *E) any { return c.Format(v) }

func (c enumCodec[E]) Import(x any, v *E) error {
	if reflect.ValueOf(x).Kind() == reflect.String {
		return c.Parse(reflect.ValueOf(x).String(), v)
	}
	var n E
	if err := c.raw.Import(x, &n); err != nil {
		return err
	}
	if _, ok := c.info.Name(n); !ok {
		return fmt.Errorf("%w: %v is not a value of %s", ErrOverflow, x, c.info.name)
	}
	*v = n
	return nil
}

package fieldset

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"reflect"
	"slices"
	"strings"
	"unsafe"

	"github.com/zoobzio/sentinel"
	"go.uber.org/zap"
)

func init() {
	// Struct tags read during registration
	sentinel.Tag("fieldset")
	sentinel.Tag("desc")
}

// Registry is the ordered field set of record type R.
//
// A Registry is built once by Define and is read-only afterwards, so it is
// safe for concurrent use. Every record-wide operation is a fold over the
// registered fields in declaration order.
type Registry[R any] struct {
	typeName string
	fields   []Field[R]
	byName   map[string]int
	byMember map[memberKey]int
}

// memberKey identifies a struct field by offset and type. Zero-size fields
// may share an offset with their neighbour but not a type.
type memberKey struct {
	offset uintptr
	typ    reflect.Type
}

// Define builds the registry of R from its field specs, in declaration order.
//
// Every exported field of R must be registered exactly once unless it is
// tagged `fieldset:"-"`. Unexported fields may be registered too. A `desc`
// struct tag supplies the description of a spec declared without one.
func Define[R any](specs ...FieldSpec[R]) (*Registry[R], error) {
	typ := reflect.TypeFor[R]()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidField, typ)
	}
	meta := sentinel.Scan[R]()

	members := make(map[memberKey]string, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		members[memberKey{sf.Offset, sf.Type}] = sf.Name
	}

	required := make(map[memberKey]string)
	descs := make(map[memberKey]string)
	for _, fm := range meta.Fields {
		sf := typ.FieldByIndex(fm.Index)
		if len(sf.Index) != 1 || !sf.IsExported() {
			continue
		}
		k := memberKey{sf.Offset, sf.Type}
		descs[k] = fm.Tags["desc"]
		if fm.Tags["fieldset"] != "-" {
			required[k] = sf.Name
		}
	}

	reg := &Registry[R]{
		typeName: meta.TypeName,
		fields:   make([]Field[R], 0, len(specs)),
		byName:   make(map[string]int, len(specs)),
		byMember: make(map[memberKey]int, len(specs)),
	}
	if reg.typeName == "" {
		reg.typeName = typ.Name()
	}

	layout := new(R)
	base := uintptr(unsafe.Pointer(layout))
	for i, s := range specs {
		f := s.field
		if f == nil {
			return nil, fmt.Errorf("%w: spec %d of %s is empty", ErrInvalidField, i, reg.typeName)
		}
		name := f.Name()
		if name == "" || strings.ContainsAny(name, ": \t\n#") {
			return nil, fmt.Errorf("%w: spec %d of %s has invalid name %q", ErrInvalidField, i, reg.typeName, name)
		}
		if _, dup := reg.byName[name]; dup {
			return nil, fmt.Errorf("%w: %s.%s registered twice", ErrInvalidField, reg.typeName, name)
		}
		addr := f.addr(layout)
		if addr < base || addr-base > typ.Size() {
			return nil, fmt.Errorf("%w: accessor of %s.%s does not address the record", ErrInvalidField, reg.typeName, name)
		}
		k := memberKey{addr - base, f.Type()}
		if _, ok := members[k]; !ok {
			return nil, fmt.Errorf("%w: accessor of %s.%s does not address a field of type %s", ErrInvalidField, reg.typeName, name, f.Type())
		}
		if prev, dup := reg.byMember[k]; dup {
			return nil, fmt.Errorf("%w: %s.%s and %s address the same field", ErrInvalidField, reg.typeName, name, reg.fields[prev].Name())
		}
		reg.fields = append(reg.fields, f.bind(i, descs[k]))
		reg.byName[name] = i
		reg.byMember[k] = i
		delete(required, k)
	}
	if len(required) > 0 {
		missing := slices.Sorted(maps.Values(required))
		return nil, fmt.Errorf("%w: %s fields not registered: %s", ErrInvalidField, reg.typeName, strings.Join(missing, ", "))
	}

	Logger().Debug("registry defined",
		zap.String("type", reg.typeName),
		zap.Int("fields", len(reg.fields)),
	)
	emitRegistryDefined(context.Background(), reg.typeName, len(reg.fields))
	return reg, nil
}

// MustDefine is like Define but panics on error.
func MustDefine[R any](specs ...FieldSpec[R]) *Registry[R] {
	reg, err := Define(specs...)
	if err != nil {
		panic(err)
	}
	return reg
}

// TypeName returns the record type name.
func (r *Registry[R]) TypeName() string { return r.typeName }

// Len returns the number of registered fields.
func (r *Registry[R]) Len() int { return len(r.fields) }

// Fields returns the fields in declaration order.
func (r *Registry[R]) Fields() []Field[R] { return slices.Clone(r.fields) }

// Field returns the field with the given name.
func (r *Registry[R]) Field(name string) (Field[R], bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.fields[i], true
}

// FieldAt returns the field at index i. It panics if i is out of range.
func (r *Registry[R]) FieldAt(i int) Field[R] { return r.fields[i] }

// included yields the fields m does not exclude.
func (r *Registry[R]) included(m Mask) iter.Seq2[int, Field[R]] {
	return func(yield func(int, Field[R]) bool) {
		for i, f := range r.fields {
			if m.Excludes(i) {
				continue
			}
			if !yield(i, f) {
				return
			}
		}
	}
}

// Equal reports whether a and b hold equal values in every field.
func (r *Registry[R]) Equal(a, b *R) bool { return r.equal(a, b, Mask{}) }

// IsDefault reports whether every field of rec holds its default.
func (r *Registry[R]) IsDefault(rec *R) bool { return r.isDefault(rec, Mask{}) }

// NonDefault returns the names of the fields of rec that differ from their defaults.
func (r *Registry[R]) NonDefault(rec *R) []string { return r.nonDefault(rec, Mask{}) }

// Diff returns the names of the fields whose values differ between a and b.
func (r *Registry[R]) Diff(a, b *R) []string { return r.diff(a, b, Mask{}) }

// Differences describes each differing field on a "name: x vs y" line.
func (r *Registry[R]) Differences(a, b *R) string { return r.differences(a, b, Mask{}) }

func (r *Registry[R]) equal(a, b *R, m Mask) bool {
	for _, f := range r.included(m) {
		if f.Differs(a, b) {
			return false
		}
	}
	return true
}

func (r *Registry[R]) isDefault(rec *R, m Mask) bool {
	for _, f := range r.included(m) {
		if !f.IsDefault(rec) {
			return false
		}
	}
	return true
}

func (r *Registry[R]) nonDefault(rec *R, m Mask) []string {
	var names []string
	for _, f := range r.included(m) {
		if !f.IsDefault(rec) {
			names = append(names, f.Name())
		}
	}
	return names
}

func (r *Registry[R]) diff(a, b *R, m Mask) []string {
	var names []string
	for _, f := range r.included(m) {
		if f.Differs(a, b) {
			names = append(names, f.Name())
		}
	}
	return names
}

func (r *Registry[R]) differences(a, b *R, m Mask) string {
	var s strings.Builder
	for _, f := range r.included(m) {
		if f.Differs(a, b) {
			fmt.Fprintf(&s, "%s: %s vs %s\n", f.Name(), f.Text(a), f.Text(b))
		}
	}
	return s.String()
}

// Docstring lists every field on a "name: description" line.
func (r *Registry[R]) Docstring() string {
	var s strings.Builder
	for _, f := range r.fields {
		fmt.Fprintf(&s, "%s: %s\n", f.Name(), f.Description())
	}
	return s.String()
}

// New returns a record holding the default value of every field.
func (r *Registry[R]) New() *R {
	rec := new(R)
	r.Reset(rec)
	return rec
}

// Reset restores the default value of every field of rec.
func (r *Registry[R]) Reset(rec *R) {
	for _, f := range r.fields {
		f.Reset(rec)
	}
}

// Clone returns a deep copy of rec.
func (r *Registry[R]) Clone(rec *R) *R {
	c := new(R)
	*c = *rec
	for _, f := range r.fields {
		f.Copy(c, rec)
	}
	return c
}

// MakeMask returns a mask that keeps exactly the named fields and excludes
// all others. With no names every field is excluded.
func (r *Registry[R]) MakeMask(names ...string) (Mask, error) {
	m := FullMask(len(r.fields))
	for _, name := range names {
		i, ok := r.byName[name]
		if !ok {
			return Mask{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, r.typeName, name)
		}
		m.bits.Clear(uint(i))
	}
	return m, nil
}

// MaskFor is MakeMask keyed by field address: each ptr must point to a
// registered field of rec, e.g. MaskFor(&rec, &rec.Speed).
func (r *Registry[R]) MaskFor(rec *R, ptrs ...any) (Mask, error) {
	m := FullMask(len(r.fields))
	base := uintptr(unsafe.Pointer(rec))
	for _, p := range ptrs {
		rv := reflect.ValueOf(p)
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return Mask{}, fmt.Errorf("%w: %T is not a field pointer", ErrType, p)
		}
		addr := rv.Pointer()
		if addr < base {
			return Mask{}, fmt.Errorf("%w: %T does not point into %s", ErrUnknownField, p, r.typeName)
		}
		i, ok := r.byMember[memberKey{addr - base, rv.Type().Elem()}]
		if !ok {
			return Mask{}, fmt.Errorf("%w: %T does not point to a field of %s", ErrUnknownField, p, r.typeName)
		}
		m.bits.Clear(uint(i))
	}
	return m, nil
}

package fieldset

import (
	"fmt"
	"maps"
	"slices"
)

// ToDocument returns rec as a field name to value map.
func (r *Registry[R]) ToDocument(rec *R) map[string]any {
	return r.toDocument(rec, Mask{})
}

// FromDocument sets the fields of rec named in doc.
func (r *Registry[R]) FromDocument(doc map[string]any, rec *R) error {
	return r.fromDocument(doc, rec, Mask{})
}

// ToDocument returns the included fields as a field name to value map.
func (v *View[R]) ToDocument() map[string]any {
	return v.reg.toDocument(v.rec, v.mask)
}

// FromDocument sets the included fields named in doc. Excluded fields in
// doc are ignored.
func (v *View[R]) FromDocument(doc map[string]any) error {
	return v.reg.fromDocument(doc, v.rec, v.mask)
}

func (r *Registry[R]) toDocument(rec *R, m Mask) map[string]any {
	doc := make(map[string]any, len(r.fields))
	for _, f := range r.included(m) {
		doc[f.Name()] = f.Export(rec)
	}
	return doc
}

func (r *Registry[R]) fromDocument(doc map[string]any, rec *R, m Mask) error {
	for _, name := range slices.Sorted(maps.Keys(doc)) {
		f, ok := r.Field(name)
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.typeName, name)
		}
		if m.Excludes(f.Index()) {
			continue
		}
		if err := f.Import(rec, doc[name]); err != nil {
			return err
		}
	}
	return nil
}

package fieldset

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// nestedCodec encodes a record field through the registry of its type.
type nestedCodec[S any] struct {
	reg func() *Registry[S]
}

// Nested returns the codec for a record field of type S.
func Nested[S any](reg *Registry[S]) ValueCodec[S] {
	return nestedCodec[S]{reg: func() *Registry[S] { return reg }}
}

// Record returns the codec for a record field whose type describes itself.
// The registry is resolved on first use, so a record may contain sequences
// of its own type. It panics on first use if S fails to register.
func Record[S Describer[S]]() ValueCodec[S] {
	return nestedCodec[S]{reg: sync.OnceValue(MustUse[S])}
}

func (c nestedCodec[S]) Size(v *S) int { return c.reg().size(v, Mask{}) }

func (c nestedCodec[S]) Encode(buf []byte, v *S) (int, error) {
	return c.reg().encodeFields(buf, v, Mask{})
}

func (c nestedCodec[S]) Decode(buf []byte, v *S) (int, error) {
	return c.reg().decodeFields(buf, v, Mask{}, false)
}

func (c nestedCodec[S]) Equal(a, b *S) bool { return c.reg().Equal(a, b) }

func (c nestedCodec[S]) Copy(dst, src *S) {
	reg := c.reg()
	*dst = *src
	for _, f := range reg.fields {
		f.Copy(dst, src)
	}
}

// Format renders the record inline as {a: 1, b: 2}.
func (c nestedCodec[S]) Format(v *S) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range c.reg().fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name())
		b.WriteString(": ")
		b.WriteString(f.Text(v))
	}
	b.WriteByte('}')
	return b.String()
}

// Parse reads the inline form. Fields absent from s keep their values.
func (c nestedCodec[S]) Parse(s string, v *S) error {
	reg := c.reg()
	parts, err := splitSequence(trimDelims(s, '{', '}'))
	if err != nil {
		return err
	}
	for _, part := range parts {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			return fmt.Errorf("%w: expected name: value in %q", ErrSyntax, part)
		}
		f, ok := reg.Field(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, reg.typeName, strings.TrimSpace(name))
		}
		if err := f.SetText(v, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func (c nestedCodec[S]) Export(v *S) any { return c.reg().toDocument(v, Mask{}) }

func (c nestedCodec[S]) Import(x any, v *S) error {
	doc, ok := x.(map[string]any)
	if !ok {
		rv := reflect.ValueOf(x)
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return importTypeError(x, "document")
		}
		doc = make(map[string]any, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			doc[it.Key().String()] = it.Value().Interface()
		}
	}
	return c.reg().fromDocument(doc, v, Mask{})
}

func (c nestedCodec[S]) writeBlock(w *textWriter, v *S, depth int) {
	c.reg().writeFields(w, v, Mask{}, depth)
}

func (c nestedCodec[S]) readBlock(d *TextDecoder, v *S, level int) error {
	_, err := c.reg().readFields(d, v, Mask{}, level, false)
	return err
}

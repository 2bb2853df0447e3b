package fieldset

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"
)

// vectorCodec encodes a slice as a one byte element count followed by the elements.
type vectorCodec[T any] struct {
	elem ValueCodec[T]
}

// Vector returns the codec for a bounded slice of up to 255 elements.
func Vector[T any](elem ValueCodec[T]) ValueCodec[[]T] {
	return vectorCodec[T]{elem: elem}
}

func (c vectorCodec[T]) Size(v *[]T) int {
	return 1 + elementsSize(c.elem, *v)
}

func (c vectorCodec[T]) Encode(buf []byte, v *[]T) (int, error) {
	n := len(*v)
	if n > maxLen {
		return 0, fmt.Errorf("%w: vector of %d elements", ErrTooLong, n)
	}
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	buf[0] = byte(n)
	k, err := encodeElements(c.elem, buf[1:], *v)
	return 1 + k, err
}

func (c vectorCodec[T]) Decode(buf []byte, v *[]T) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	items := make([]T, int(buf[0]))
	k, err := decodeElements(c.elem, buf[1:], items)
	if err != nil {
		return 1 + k, err
	}
	*v = items
	return 1 + k, nil
}

func (c vectorCodec[T]) Equal(a, b *[]T) bool {
	return elementsEqual(c.elem, *a, *b)
}

func (c vectorCodec[T]) Copy(dst, src *[]T) {
	if *src == nil {
		*dst = nil
		return
	}
	items := make([]T, len(*src))
	copyElements(c.elem, items, *src)
	*dst = items
}

func (c vectorCodec[T]) Format(v *[]T) string {
	return formatElements(c.elem, *v)
}

func (c vectorCodec[T]) Parse(s string, v *[]T) error {
	parts, err := splitSequence(trimDelims(s, '[', ']'))
	if err != nil {
		return err
	}
	items := make([]T, len(parts))
	if err := parseElements(c.elem, parts, items); err != nil {
		return err
	}
	*v = items
	return nil
}

func (c vectorCodec[T]) Export(v *[]T) any {
	return exportElements(c.elem, *v)
}

func (c vectorCodec[T]) Import(x any, v *[]T) error {
	if x == nil {
		*v = nil
		return nil
	}
	rv, err := sequenceValue(x)
	if err != nil {
		return err
	}
	items := make([]T, rv.Len())
	if err := importElements(c.elem, rv, items); err != nil {
		return err
	}
	*v = items
	return nil
}

// arrayCodec encodes a fixed-size array as its concatenated elements.
type arrayCodec[A, T any] struct {
	elem ValueCodec[T]
	n    int
}

// Array returns the codec for a fixed-size array type A with element type T,
// e.g. Array[[3]float32](Float32()). It panics if A is not an array of T.
func Array[A, T any](elem ValueCodec[T]) ValueCodec[A] {
	at, et := reflect.TypeFor[A](), reflect.TypeFor[T]()
	if at.Kind() != reflect.Array || at.Elem() != et {
		panic(fmt.Sprintf("fieldset: %s is not an array of %s", at, et))
	}
	return arrayCodec[A, T]{elem: elem, n: at.Len()}
}

// items views the array as a slice of its elements.
func (c arrayCodec[A, T]) items(v *A) []T {
	if c.n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(v)), c.n)
}

func (c arrayCodec[A, T]) Size(v *A) int {
	return elementsSize(c.elem, c.items(v))
}

func (c arrayCodec[A, T]) Encode(buf []byte, v *A) (int, error) {
	return encodeElements(c.elem, buf, c.items(v))
}

func (c arrayCodec[A, T]) Decode(buf []byte, v *A) (int, error) {
	return decodeElements(c.elem, buf, c.items(v))
}

func (c arrayCodec[A, T]) Equal(a, b *A) bool {
	return elementsEqual(c.elem, c.items(a), c.items(b))
}

func (c arrayCodec[A, T]) Copy(dst, src *A) {
	copyElements(c.elem, c.items(dst), c.items(src))
}

func (c arrayCodec[A, T]) Format(v *A) string {
	return formatElements(c.elem, c.items(v))
}

func (c arrayCodec[A, T]) Parse(s string, v *A) error {
	parts, err := splitSequence(trimDelims(s, '[', ']'))
	if err != nil {
		return err
	}
	if len(parts) != c.n {
		return fmt.Errorf("%w: expected %d elements, got %d", ErrSyntax, c.n, len(parts))
	}
	var tmp A
	if err := parseElements(c.elem, parts, c.items(&tmp)); err != nil {
		return err
	}
	*v = tmp
	return nil
}

func (c arrayCodec[A, T]) Export(v *A) any {
	return exportElements(c.elem, c.items(v))
}

func (c arrayCodec[A, T]) Import(x any, v *A) error {
	rv, err := sequenceValue(x)
	if err != nil {
		return err
	}
	if rv.Len() != c.n {
		return fmt.Errorf("%w: expected %d elements, got %d", ErrType, c.n, rv.Len())
	}
	var tmp A
	if err := importElements(c.elem, rv, c.items(&tmp)); err != nil {
		return err
	}
	*v = tmp
	return nil
}

func elementsSize[T any](elem ValueCodec[T], items []T) int {
	n := 0
	for i := range items {
		n += elem.Size(&items[i])
	}
	return n
}

func encodeElements[T any](elem ValueCodec[T], buf []byte, items []T) (int, error) {
	off := 0
	for i := range items {
		k, err := elem.Encode(buf[off:], &items[i])
		if err != nil {
			return off, fmt.Errorf("element %d: %w", i, err)
		}
		off += k
	}
	return off, nil
}

func decodeElements[T any](elem ValueCodec[T], buf []byte, items []T) (int, error) {
	off := 0
	for i := range items {
		k, err := elem.Decode(buf[off:], &items[i])
		if err != nil {
			return off, fmt.Errorf("element %d: %w", i, err)
		}
		off += k
	}
	return off, nil
}

func elementsEqual[T any](elem ValueCodec[T], a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !elem.Equal(&a[i], &b[i]) {
			return false
		}
	}
	return true
}

func copyElements[T any](elem ValueCodec[T], dst, src []T) {
	for i := range src {
		elem.Copy(&dst[i], &src[i])
	}
}

func formatElements[T any](elem ValueCodec[T], items []T) string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(elem.Format(&items[i]))
	}
	b.WriteByte(']')
	return b.String()
}

func parseElements[T any](elem ValueCodec[T], parts []string, items []T) error {
	for i, part := range parts {
		if err := elem.Parse(part, &items[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

func exportElements[T any](elem ValueCodec[T], items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = elem.Export(&items[i])
	}
	return out
}

func importElements[T any](elem ValueCodec[T], rv reflect.Value, items []T) error {
	for i := range items {
		if err := elem.Import(rv.Index(i).Interface(), &items[i]); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// sequenceValue accepts any slice or array document value.
func sequenceValue(x any) (reflect.Value, error) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv, nil
	}
	return reflect.Value{}, importTypeError(x, "sequence")
}

package fieldset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// ValueCodec is the operation table for one field value type.
//
// Every field registered on a record carries a ValueCodec for its type. The
// codec owns the binary layout, the text form, equality and the conversion
// to and from generic document values. Codecs are stateless and safe for
// concurrent use.
type ValueCodec[V any] interface {
	// Size returns the number of bytes Encode will write for v.
	Size(v *V) int

	// Encode writes v to the front of buf and returns the bytes written.
	Encode(buf []byte, v *V) (int, error)

	// Decode reads v from the front of buf and returns the bytes read.
	Decode(buf []byte, v *V) (int, error)

	// Equal reports whether a and b hold the same value. Two NaNs are equal.
	Equal(a, b *V) bool

	// Copy makes dst an independent copy of src.
	Copy(dst, src *V)

	// Format returns the text form of v.
	Format(v *V) string

	// Parse sets v from its text form.
	Parse(s string, v *V) error

	// Export returns v as a generic document value.
	Export(v *V) any

	// Import sets v from a generic document value.
	Import(x any, v *V) error
}

// valueLister is implemented by codecs with a closed set of named values.
type valueLister interface {
	Values() []string
}

// integerCodec handles every integer kind. int and uint are always 8 bytes
// wide so the layout does not depend on the platform.
type integerCodec[T constraints.Integer] struct {
	width  int
	signed bool
}

// Integer returns the codec for an integer type, including named integer types.
func Integer[T constraints.Integer]() ValueCodec[T] {
	var zero T
	width := int(unsafe.Sizeof(zero))
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int, reflect.Uint, reflect.Uintptr:
		width = 8
	}
	return integerCodec[T]{width: width, signed: zero-1 < zero}
}

// Int8 returns the int8 codec.
func Int8() ValueCodec[int8] { return Integer[int8]() }

// Int16 returns the int16 codec.
func Int16() ValueCodec[int16] { return Integer[int16]() }

// Int32 returns the int32 codec.
func Int32() ValueCodec[int32] { return Integer[int32]() }

// Int64 returns the int64 codec.
func Int64() ValueCodec[int64] { return Integer[int64]() }

// Int returns the int codec (8 bytes on the wire).
func Int() ValueCodec[int] { return Integer[int]() }

// Uint8 returns the uint8 codec.
func Uint8() ValueCodec[uint8] { return Integer[uint8]() }

// Uint16 returns the uint16 codec.
func Uint16() ValueCodec[uint16] { return Integer[uint16]() }

// Uint32 returns the uint32 codec.
func Uint32() ValueCodec[uint32] { return Integer[uint32]() }

// Uint64 returns the uint64 codec.
func Uint64() ValueCodec[uint64] { return Integer[uint64]() }

func (c integerCodec[T]) Size(*T) int { return c.width }

func (c integerCodec[T]) Encode(buf []byte, v *T) (int, error) {
	if len(buf) < c.width {
		return 0, shortBuffer(c.width, len(buf))
	}
	putUint(buf, uint64(*v), c.width)
	return c.width, nil
}

func (c integerCodec[T]) Decode(buf []byte, v *T) (int, error) {
	if len(buf) < c.width {
		return 0, shortBuffer(c.width, len(buf))
	}
	*v = T(getUint(buf, c.width))
	return c.width, nil
}

func (c integerCodec[T]) Equal(a, b *T) bool { return *a == *b }

func (c integerCodec[T]) Copy(dst, src *T) { *dst = *src }

func (c integerCodec[T]) Format(v *T) string {
	if c.signed {
		return strconv.FormatInt(int64(*v), 10)
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func (c integerCodec[T]) Parse(s string, v *T) error {
	if c.signed {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return numError(s, "integer", err)
		}
		return c.fromInt64(i, v)
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return numError(s, "unsigned integer", err)
	}
	return c.fromUint64(u, v)
}

func (c integerCodec[T]) Export(v *T) any { return *v }

func (c integerCodec[T]) Import(x any, v *T) error {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return c.fromInt64(rv.Int(), v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return c.fromUint64(rv.Uint(), v)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v is not an integer", ErrType, f)
		}
		if f < 0 {
			if f < math.MinInt64 {
				return fmt.Errorf("%w: %v", ErrOverflow, f)
			}
			return c.fromInt64(int64(f), v)
		}
		if f >= math.MaxUint64 {
			return fmt.Errorf("%w: %v", ErrOverflow, f)
		}
		return c.fromUint64(uint64(f), v)
	case reflect.String:
		return c.Parse(rv.String(), v)
	}
	return importTypeError(x, "integer")
}

func (c integerCodec[T]) fromInt64(i int64, v *T) error {
	t := T(i)
	if int64(t) != i || (!c.signed && i < 0) {
		return fmt.Errorf("%w: %d", ErrOverflow, i)
	}
	*v = t
	return nil
}

func (c integerCodec[T]) fromUint64(u uint64, v *T) error {
	if c.signed && u > math.MaxInt64 {
		return fmt.Errorf("%w: %d", ErrOverflow, u)
	}
	t := T(u)
	if uint64(t) != u {
		return fmt.Errorf("%w: %d", ErrOverflow, u)
	}
	*v = t
	return nil
}

// putUint writes the low width bytes of u little-endian.
func putUint(buf []byte, u uint64, width int) {
	switch width {
	case 1:
		buf[0] = byte(u)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(u))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(u))
	default:
		binary.LittleEndian.PutUint64(buf, u)
	}
}

// getUint reads width bytes little-endian, zero-extended.
func getUint(buf []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(buf))
	case 4:
		return uint64(binary.LittleEndian.Uint32(buf))
	default:
		return binary.LittleEndian.Uint64(buf)
	}
}

// boolCodec encodes booleans on one byte.
type boolCodec[T ~bool] struct{}

// Boolean returns the codec for a bool type, including named bool types.
func Boolean[T ~bool]() ValueCodec[T] { return boolCodec[T]{} }

// Bool returns the bool codec.
func Bool() ValueCodec[bool] { return boolCodec[bool]{} }

func (boolCodec[T]) Size(*T) int { return 1 }

func (boolCodec[T]) Encode(buf []byte, v *T) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	buf[0] = 0
	if *v {
		buf[0] = 1
	}
	return 1, nil
}

func (boolCodec[T]) Decode(buf []byte, v *T) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	*v = buf[0] != 0
	return 1, nil
}

func (boolCodec[T]) Equal(a, b *T) bool { return *a == *b }

func (boolCodec[T]) Copy(dst, src *T) { *dst = *src }

func (boolCodec[T]) Format(v *T) string { return strconv.FormatBool(bool(*v)) }

func (boolCodec[T]) Parse(s string, v *T) error {
	switch s {
	case "true", "1":
		*v = true
	case "false", "0":
		*v = false
	default:
		return fmt.Errorf("%w: %q is not a boolean", ErrSyntax, s)
	}
	return nil
}

func (boolCodec[T]) Export(v *T) any { return bool(*v) }

func (c boolCodec[T]) Import(x any, v *T) error {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Bool:
		*v = T(rv.Bool())
		return nil
	case reflect.String:
		return c.Parse(rv.String(), v)
	}
	return importTypeError(x, "bool")
}

// floatCodec encodes float32 kinds with the portable packing of PackFloat32
// and float64 kinds as IEEE-754 bits.
type floatCodec[T constraints.Float] struct {
	wide bool
}

// Float returns the codec for a floating point type, including named ones.
func Float[T constraints.Float]() ValueCodec[T] {
	return floatCodec[T]{wide: reflect.TypeFor[T]().Kind() == reflect.Float64}
}

// Float32 returns the float32 codec.
func Float32() ValueCodec[float32] { return Float[float32]() }

// Float64 returns the float64 codec.
func Float64() ValueCodec[float64] { return Float[float64]() }

func (c floatCodec[T]) bits() int {
	if c.wide {
		return 64
	}
	return 32
}

func (c floatCodec[T]) Size(*T) int { return c.bits() / 8 }

func (c floatCodec[T]) Encode(buf []byte, v *T) (int, error) {
	n := c.bits() / 8
	if len(buf) < n {
		return 0, shortBuffer(n, len(buf))
	}
	if c.wide {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(*v)))
	} else {
		binary.LittleEndian.PutUint32(buf, PackFloat32(float32(*v)))
	}
	return n, nil
}

func (c floatCodec[T]) Decode(buf []byte, v *T) (int, error) {
	n := c.bits() / 8
	if len(buf) < n {
		return 0, shortBuffer(n, len(buf))
	}
	if c.wide {
		*v = T(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
	} else {
		*v = T(UnpackFloat32(binary.LittleEndian.Uint32(buf)))
	}
	return n, nil
}

func (c floatCodec[T]) Equal(a, b *T) bool {
	return *a == *b || (*a != *a && *b != *b)
}

func (c floatCodec[T]) Copy(dst, src *T) { *dst = *src }

func (c floatCodec[T]) Format(v *T) string {
	return strconv.FormatFloat(float64(*v), 'g', -1, c.bits())
}

func (c floatCodec[T]) Parse(s string, v *T) error {
	f, err := strconv.ParseFloat(s, c.bits())
	if err != nil {
		return numError(s, "float", err)
	}
	*v = T(f)
	return nil
}

func (c floatCodec[T]) Export(v *T) any { return *v }

func (c floatCodec[T]) Import(x any, v *T) error {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		*v = T(rv.Float())
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*v = T(rv.Int())
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*v = T(rv.Uint())
		return nil
	case reflect.String:
		return c.Parse(rv.String(), v)
	}
	return importTypeError(x, "float")
}

// stringCodec encodes strings with a one byte length prefix.
type stringCodec[T ~string] struct{}

// Text returns the codec for a string type, including named string types.
func Text[T ~string]() ValueCodec[T] { return stringCodec[T]{} }

// String returns the string codec.
func String() ValueCodec[string] { return stringCodec[string]{} }

func (stringCodec[T]) Size(v *T) int { return 1 + len(*v) }

func (stringCodec[T]) Encode(buf []byte, v *T) (int, error) {
	n := len(*v)
	if n > maxLen {
		return 0, fmt.Errorf("%w: string of %d bytes", ErrTooLong, n)
	}
	if len(buf) < 1+n {
		return 0, shortBuffer(1+n, len(buf))
	}
	buf[0] = byte(n)
	copy(buf[1:], *v)
	return 1 + n, nil
}

func (stringCodec[T]) Decode(buf []byte, v *T) (int, error) {
	if len(buf) < 1 {
		return 0, shortBuffer(1, 0)
	}
	n := int(buf[0])
	if len(buf) < 1+n {
		return 0, shortBuffer(1+n, len(buf))
	}
	*v = T(buf[1 : 1+n])
	return 1 + n, nil
}

func (stringCodec[T]) Equal(a, b *T) bool { return *a == *b }

func (stringCodec[T]) Copy(dst, src *T) { *dst = *src }

func (stringCodec[T]) Format(v *T) string { return quoteText(string(*v)) }

func (stringCodec[T]) Parse(s string, v *T) error {
	u, err := unquoteText(s)
	if err != nil {
		return err
	}
	*v = T(u)
	return nil
}

func (stringCodec[T]) Export(v *T) any { return string(*v) }

func (stringCodec[T]) Import(x any, v *T) error {
	switch t := x.(type) {
	case []byte:
		*v = T(t)
		return nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.String {
		*v = T(rv.String())
		return nil
	}
	return importTypeError(x, "string")
}

// maxLen is the largest string or vector length the one byte prefix can carry.
const maxLen = 255

// numError maps strconv failures onto the package sentinels.
func numError(s, kind string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return fmt.Errorf("%w: %q does not fit %s", ErrOverflow, s, kind)
	}
	return fmt.Errorf("%w: %q is not a valid %s", ErrSyntax, s, kind)
}

// importTypeError reports a document value of an unusable kind.
func importTypeError(x any, want string) error {
	return fmt.Errorf("%w: cannot use %T as %s", ErrType, x, want)
}

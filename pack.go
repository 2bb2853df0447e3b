package fieldset

import "fmt"

// Packable is a value that encodes itself into a byte buffer.
// Views and bound values are Packable.
type Packable interface {
	Size() int
	Encode(buf []byte) (int, error)
	Decode(buf []byte) (int, error)
}

type bound[V any] struct {
	codec ValueCodec[V]
	v     *V
}

// Bind pairs a value with its codec so it can be packed alongside records.
func Bind[V any](codec ValueCodec[V], v *V) Packable {
	return bound[V]{codec: codec, v: v}
}

func (b bound[V]) Size() int                      { return b.codec.Size(b.v) }
func (b bound[V]) Encode(buf []byte) (int, error) { return b.codec.Encode(buf, b.v) }
func (b bound[V]) Decode(buf []byte) (int, error) { return b.codec.Decode(buf, b.v) }

// SizeOf returns the combined encoded size of items.
func SizeOf(items ...Packable) int {
	n := 0
	for _, it := range items {
		n += it.Size()
	}
	return n
}

// EncodeAll writes items back to back into buf.
func EncodeAll(buf []byte, items ...Packable) (int, error) {
	off := 0
	for i, it := range items {
		n, err := it.Encode(buf[off:])
		if err != nil {
			return off, fmt.Errorf("item %d: %w", i, err)
		}
		off += n
	}
	return off, nil
}

// DecodeAll reads items back to back from buf.
func DecodeAll(buf []byte, items ...Packable) (int, error) {
	off := 0
	for i, it := range items {
		n, err := it.Decode(buf[off:])
		if err != nil {
			return off, fmt.Errorf("item %d: %w", i, err)
		}
		off += n
	}
	return off, nil
}

// Pack encodes items into a new buffer.
func Pack(items ...Packable) ([]byte, error) {
	buf := make([]byte, SizeOf(items...))
	n, err := EncodeAll(buf, items...)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

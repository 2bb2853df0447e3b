package fieldset

import (
	"github.com/bits-and-blooms/bitset"
)

// Mask is a field exclusion set sized to a record's field count.
// Bit i set means field i is excluded. The zero Mask excludes nothing.
//
// Masks are values: every method that changes bits returns a new Mask.
type Mask struct {
	bits *bitset.BitSet
	n    int
}

// NewMask returns a mask over n fields that excludes nothing.
func NewMask(n int) Mask {
	return Mask{bits: bitset.New(uint(n)), n: n}
}

// FullMask returns a mask over n fields that excludes every field.
func FullMask(n int) Mask {
	m := NewMask(n)
	for i := 0; i < n; i++ {
		m.bits.Set(uint(i))
	}
	return m
}

// Len returns the number of fields the mask covers.
func (m Mask) Len() int { return m.n }

// Excludes reports whether field i is excluded.
func (m Mask) Excludes(i int) bool {
	return m.bits != nil && i >= 0 && i < m.n && m.bits.Test(uint(i))
}

// Includes reports whether field i is included.
func (m Mask) Includes(i int) bool { return !m.Excludes(i) }

// Count returns the number of excluded fields.
func (m Mask) Count() int {
	if m.bits == nil {
		return 0
	}
	return int(m.bits.Count())
}

// None reports whether the mask excludes nothing.
func (m Mask) None() bool { return m.Count() == 0 }

// All reports whether the mask excludes every field it covers.
func (m Mask) All() bool { return m.Count() == m.n }

func (m Mask) clone() Mask {
	if m.bits == nil {
		return NewMask(m.n)
	}
	return Mask{bits: m.bits.Clone(), n: m.n}
}

// Exclude returns a copy of m with the given fields excluded.
// Indexes outside the mask are ignored.
func (m Mask) Exclude(idx ...int) Mask {
	c := m.clone()
	for _, i := range idx {
		if i >= 0 && i < c.n {
			c.bits.Set(uint(i))
		}
	}
	return c
}

// Include returns a copy of m with the given fields included.
func (m Mask) Include(idx ...int) Mask {
	c := m.clone()
	for _, i := range idx {
		if i >= 0 && i < c.n {
			c.bits.Clear(uint(i))
		}
	}
	return c
}

// Invert returns the complement of m.
func (m Mask) Invert() Mask {
	c := NewMask(m.n)
	for i := 0; i < m.n; i++ {
		if !m.Excludes(i) {
			c.bits.Set(uint(i))
		}
	}
	return c
}

// Equal reports whether both masks exclude the same fields.
func (m Mask) Equal(o Mask) bool {
	n := max(m.n, o.n)
	for i := 0; i < n; i++ {
		if m.Excludes(i) != o.Excludes(i) {
			return false
		}
	}
	return true
}

// String renders the mask MSB first, one digit per field.
func (m Mask) String() string {
	if m.bits == nil {
		return formatBits(bitset.New(0), m.n)
	}
	return formatBits(m.bits, m.n)
}

// EncodedLen returns the number of bytes of the packed mask.
func (m Mask) EncodedLen() int { return packedLen(m.n) }

// sized returns m resized to n fields. Bits past n are dropped.
func (m Mask) sized(n int) Mask {
	if m.n == n && m.bits != nil {
		return m
	}
	c := NewMask(n)
	for i := 0; i < n; i++ {
		if m.Excludes(i) {
			c.bits.Set(uint(i))
		}
	}
	return c
}

// encode packs the mask into the front of buf.
func (m Mask) encode(buf []byte) (int, error) {
	n := m.EncodedLen()
	if len(buf) < n {
		return 0, shortBuffer(n, len(buf))
	}
	if m.bits == nil {
		clear(buf[:n])
		return n, nil
	}
	packBits(buf, m.bits, m.n)
	return n, nil
}

// decodeMask unpacks a mask over n fields from packed bytes.
func decodeMask(buf []byte, n int) Mask {
	return Mask{bits: unpackBits(buf, n), n: n}
}

package fieldset

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"go.uber.org/zap"
)

// bitsetCodec encodes a fixed-width bitset as ceil(width/8) bytes.
type bitsetCodec struct {
	width int
}

// Bitset returns the codec for a bitset of the given width.
func Bitset(width int) ValueCodec[bitset.BitSet] {
	return bitsetCodec{width: width}
}

// packedLen is the number of bytes holding width bits.
func packedLen(width int) int { return (width + 7) / 8 }

// packBits writes bit i of b to byte i/8 under mask 1<<(i%8).
func packBits(buf []byte, b *bitset.BitSet, width int) {
	clear(buf[:packedLen(width)])
	for i := 0; i < width; i++ {
		if b.Test(uint(i)) {
			buf[i/8] |= 1 << (i % 8)
		}
	}
}

// unpackBits reads up to width bits from buf. Bits past the end of buf are clear.
func unpackBits(buf []byte, width int) *bitset.BitSet {
	b := bitset.New(uint(width))
	for i := 0; i < width && i/8 < len(buf); i++ {
		if buf[i/8]&(1<<(i%8)) != 0 {
			b.Set(uint(i))
		}
	}
	return b
}

// formatBits renders bits MSB first.
func formatBits(b *bitset.BitSet, width int) string {
	var s strings.Builder
	s.Grow(width)
	for i := width - 1; i >= 0; i-- {
		if b.Test(uint(i)) {
			s.WriteByte('1')
		} else {
			s.WriteByte('0')
		}
	}
	return s.String()
}

// parseBits reads an MSB first string. A shorter string fills the low bits.
func parseBits(s string, width int) (*bitset.BitSet, error) {
	if len(s) > width {
		return nil, fmt.Errorf("%w: %d bits do not fit a bitset of %d", ErrOverflow, len(s), width)
	}
	b := bitset.New(uint(width))
	for i := 0; i < len(s); i++ {
		switch s[len(s)-1-i] {
		case '1':
			b.Set(uint(i))
		case '0':
		default:
			return nil, fmt.Errorf("%w: %q is not a bit string", ErrSyntax, s)
		}
	}
	return b, nil
}

func (c bitsetCodec) Size(*bitset.BitSet) int { return packedLen(c.width) }

func (c bitsetCodec) Encode(buf []byte, v *bitset.BitSet) (int, error) {
	n := packedLen(c.width)
	if len(buf) < n {
		return 0, shortBuffer(n, len(buf))
	}
	packBits(buf, v, c.width)
	return n, nil
}

// Decode accepts a buffer shorter than the full width; only the supplied
// bytes are consulted.
func (c bitsetCodec) Decode(buf []byte, v *bitset.BitSet) (int, error) {
	n := min(packedLen(c.width), len(buf))
	if n < packedLen(c.width) {
		Logger().Debug("partial bitset decode",
			zap.Int("width", c.width),
			zap.Int("bytes", n),
		)
	}
	*v = *unpackBits(buf[:n], c.width)
	return n, nil
}

func (c bitsetCodec) Equal(a, b *bitset.BitSet) bool {
	for i := 0; i < c.width; i++ {
		if a.Test(uint(i)) != b.Test(uint(i)) {
			return false
		}
	}
	return true
}

func (c bitsetCodec) Copy(dst, src *bitset.BitSet) { *dst = *src.Clone() }

func (c bitsetCodec) Format(v *bitset.BitSet) string { return formatBits(v, c.width) }

func (c bitsetCodec) Parse(s string, v *bitset.BitSet) error {
	b, err := parseBits(s, c.width)
	if err != nil {
		return err
	}
	*v = *b
	return nil
}

func (c bitsetCodec) Export(v *bitset.BitSet) any { return c.Format(v) }

func (c bitsetCodec) Import(x any, v *bitset.BitSet) error {
	s, ok := x.(string)
	if !ok {
		return importTypeError(x, "bit string")
	}
	return c.Parse(s, v)
}

package fieldset

import "math"

const (
	floatSignBit  = 1 << 31
	floatExpMask  = 0xFF
	floatMantMask = 0x7FFFFF
	floatExpBias  = 126
)

// PackFloat32 returns the portable 32-bit wire form of f.
//
// The layout is sign<<31 | exponent<<23 | mantissa, built from the frexp
// decomposition of f rather than from its in-memory bits, so peers without
// IEEE-754 float32 agree on it. For normal values the result equals
// math.Float32bits. Zero packs to 0 (negative zero loses its sign), NaN packs
// to 0 and infinities pack to exponent 0xFF with a zero mantissa.
//
// Subnormals have no exponent in this layout: any value with magnitude below
// 2^-126 packs to 0 and does not round-trip.
func PackFloat32(f float32) uint32 {
	if math.IsNaN(float64(f)) {
		return 0
	}
	if math.IsInf(float64(f), 0) {
		bits := uint32(floatExpMask) << 23
		if f < 0 {
			bits |= floatSignBit
		}
		return bits
	}
	frac, exp := math.Frexp(float64(f))
	exp += floatExpBias
	if frac == 0 || exp <= 0 {
		return 0
	}
	mant := uint32((math.Abs(frac) - 0.5) * 2 * (1 << 23))
	bits := uint32(exp)<<23 | mant&floatMantMask
	if frac < 0 {
		bits |= floatSignBit
	}
	return bits
}

// UnpackFloat32 is the inverse of PackFloat32.
func UnpackFloat32(bits uint32) float32 {
	exp := int(bits>>23) & floatExpMask
	mant := bits & floatMantMask
	neg := bits&floatSignBit != 0
	if exp == floatExpMask {
		if neg {
			return float32(math.Inf(-1))
		}
		return float32(math.Inf(1))
	}
	var frac float64
	if exp != 0 || mant != 0 {
		frac = float64(mant)/(1<<24) + 0.5
		exp -= floatExpBias
	}
	if neg {
		frac = -frac
	}
	return float32(math.Ldexp(frac, exp))
}

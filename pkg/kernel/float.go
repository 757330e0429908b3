package kernel

import "math"

// Float128 is a 128-bit IEEE-754 bit pattern split into its low and
// high 64-bit halves (Hi's top bit is the sign bit). Only the sign-bit
// ops and Min/Max are implemented for width 128 — other f128
// arithmetic is out of scope.
type Float128 struct {
	Lo, Hi uint64
}

// --- float16 <-> float32 bit conversion -----------------------------
//
// float16 has no native Go type. Arithmetic is performed by widening to
// float32 (which can represent every float16 value exactly), computing
// in float32, and rounding the float32 result back to float16 with
// round-ties-to-even. float32 has enough headroom over float16's
// mantissa that this never double-rounds incorrectly for the
// single-operation folds this kernel performs.

func f16ToF32Bits(h uint16) uint32 {
	sign := uint32(h>>15) & 1
	exp := uint32(h>>10) & 0x1F
	frac := uint32(h) & 0x3FF
	switch exp {
	case 0:
		if frac == 0 {
			return sign << 31
		}
		// Subnormal: normalize.
		e := 0
		for frac&0x400 == 0 {
			frac <<= 1
			e--
		}
		frac &= 0x3FF
		exp32 := uint32(int32(127-15+1) + int32(e))
		return sign<<31 | exp32<<23 | frac<<13
	case 0x1F:
		return sign<<31 | 0xFF<<23 | frac<<13
	default:
		exp32 := exp - 15 + 127
		return sign<<31 | exp32<<23 | frac<<13
	}
}

func f32BitsToF16(b uint32) uint16 {
	sign := uint16(b>>16) & 0x8000
	exp := int32((b>>23)&0xFF) - 127 + 15
	frac := b & 0x7FFFFF

	switch {
	case (b>>23)&0xFF == 0xFF: // inf/nan
		f16frac := uint16(frac >> 13)
		if frac != 0 && f16frac == 0 {
			f16frac = 1
		}
		return sign | 0x7C00 | f16frac
	case exp >= 0x1F:
		return sign | 0x7C00 // overflow to inf
	case exp <= 0:
		if exp < -10 {
			return sign // underflow to zero
		}
		frac |= 0x800000
		shift := uint(14 - exp)
		rounded := roundShift(frac, shift)
		return sign | uint16(rounded)
	default:
		rounded := roundShift(frac, 13)
		if rounded&0x400 != 0 {
			// mantissa overflow bumped into the exponent
			exp++
			rounded = 0
		}
		if exp >= 0x1F {
			return sign | 0x7C00
		}
		return sign | uint16(exp)<<10 | uint16(rounded)
	}
}

// roundShift shifts v right by shift bits, rounding to nearest-even.
func roundShift(v uint32, shift uint) uint32 {
	if shift == 0 {
		return v
	}
	if shift >= 32 {
		return 0
	}
	halfway := uint32(1) << (shift - 1)
	rem := v & ((uint32(1) << shift) - 1)
	result := v >> shift
	if rem > halfway || (rem == halfway && result&1 == 1) {
		result++
	}
	return result
}

func f16Add(a, b uint16) uint16 { return f32BitsToF16(math.Float32bits(math.Float32frombits(f16ToF32Bits(a)) + math.Float32frombits(f16ToF32Bits(b)))) }
func f16Sub(a, b uint16) uint16 { return f32BitsToF16(math.Float32bits(math.Float32frombits(f16ToF32Bits(a)) - math.Float32frombits(f16ToF32Bits(b)))) }
func f16Mul(a, b uint16) uint16 { return f32BitsToF16(math.Float32bits(math.Float32frombits(f16ToF32Bits(a)) * math.Float32frombits(f16ToF32Bits(b)))) }
func f16Div(a, b uint16) uint16 { return f32BitsToF16(math.Float32bits(math.Float32frombits(f16ToF32Bits(a)) / math.Float32frombits(f16ToF32Bits(b)))) }

func isNaN16(h uint16) bool {
	return h&0x7C00 == 0x7C00 && h&0x3FF != 0
}

// --- width dispatch ---------------------------------------------------

// binOp applies op to two operands of the given float width, returning
// the result bits and ok=false if the IEEE result is NaN — binary
// arithmetic folds never fire on a NaN-producing operation.
func binOp(width int, a, b uint64, op32 func(x, y float32) float32, op64 func(x, y float64) float64, op16 func(x, y uint16) uint16) (uint64, bool) {
	switch width {
	case 16:
		r := op16(uint16(a), uint16(b))
		if isNaN16(r) {
			return 0, false
		}
		return uint64(r), true
	case 32:
		r := op32(math.Float32frombits(uint32(a)), math.Float32frombits(uint32(b)))
		if r != r { // NaN
			return 0, false
		}
		return uint64(math.Float32bits(r)), true
	case 64:
		r := op64(math.Float64frombits(a), math.Float64frombits(b))
		if r != r {
			return 0, false
		}
		return math.Float64bits(r), true
	default:
		return 0, false
	}
}

func FAdd(width int, a, b uint64) (uint64, bool) {
	return binOp(width, a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y },
		f16Add)
}

func FSub(width int, a, b uint64) (uint64, bool) {
	return binOp(width, a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y },
		f16Sub)
}

func FMul(width int, a, b uint64) (uint64, bool) {
	return binOp(width, a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y },
		f16Mul)
}

func FDiv(width int, a, b uint64) (uint64, bool) {
	return binOp(width, a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y },
		f16Div)
}

// unOp applies a unary op, gated on the same NaN rule as binOp.
func unOp(width int, a uint64, op32 func(float32) float32, op64 func(float64) float64) (uint64, bool) {
	switch width {
	case 32:
		r := op32(math.Float32frombits(uint32(a)))
		if r != r {
			return 0, false
		}
		return uint64(math.Float32bits(r)), true
	case 64:
		r := op64(math.Float64frombits(a))
		if r != r {
			return 0, false
		}
		return math.Float64bits(r), true
	case 16:
		f32 := math.Float32frombits(f16ToF32Bits(uint16(a)))
		r32 := op32(f32)
		h := f32BitsToF16(math.Float32bits(r32))
		if isNaN16(h) {
			return 0, false
		}
		return uint64(h), true
	default:
		return 0, false
	}
}

func FSqrt(width int, a uint64) (uint64, bool) {
	return unOp(width, a, func(x float32) float32 { return float32(math.Sqrt(float64(x))) }, math.Sqrt)
}
func FCeil(width int, a uint64) (uint64, bool) {
	return unOp(width, a, func(x float32) float32 { return float32(math.Ceil(float64(x))) }, math.Ceil)
}
func FFloor(width int, a uint64) (uint64, bool) {
	return unOp(width, a, func(x float32) float32 { return float32(math.Floor(float64(x))) }, math.Floor)
}
func FTrunc(width int, a uint64) (uint64, bool) {
	return unOp(width, a, func(x float32) float32 { return float32(math.Trunc(float64(x))) }, math.Trunc)
}
func FNearest(width int, a uint64) (uint64, bool) {
	return unOp(width, a, func(x float32) float32 { return float32(math.RoundToEven(float64(x))) }, math.RoundToEven)
}

// FMin, FMax follow IEEE-754-2019 minimum/maximum semantics: NaN
// propagates, and -0 < +0. Unlike the other binary
// float ops, these never fail the NaN guard — a NaN operand produces a
// NaN result, which IS the defined semantics for minimum/maximum
// (distinguishing them from fadd/fsub/fmul/fdiv, whose NaN results are
// instead forbidden from folding).
func FMin(width int, a, b uint64) uint64 { return minMax(width, a, b, true) }
func FMax(width int, a, b uint64) uint64 { return minMax(width, a, b, false) }

func minMax(width int, a, b uint64, wantMin bool) uint64 {
	switch width {
	case 32:
		x, y := math.Float32frombits(uint32(a)), math.Float32frombits(uint32(b))
		if x != x {
			return a
		}
		if y != y {
			return b
		}
		if x == 0 && y == 0 {
			// -0 < +0: pick by sign bit.
			xNeg := uint32(a)>>31 == 1
			if wantMin {
				if xNeg {
					return a
				}
				return b
			}
			if xNeg {
				return b
			}
			return a
		}
		if (wantMin && x < y) || (!wantMin && x > y) {
			return a
		}
		return b
	case 64:
		x, y := math.Float64frombits(a), math.Float64frombits(b)
		if x != x {
			return a
		}
		if y != y {
			return b
		}
		if x == 0 && y == 0 {
			xNeg := a>>63 == 1
			if wantMin {
				if xNeg {
					return a
				}
				return b
			}
			if xNeg {
				return b
			}
			return a
		}
		if (wantMin && x < y) || (!wantMin && x > y) {
			return a
		}
		return b
	case 16:
		xh, yh := uint16(a), uint16(b)
		if isNaN16(xh) {
			return a
		}
		if isNaN16(yh) {
			return b
		}
		x32, y32 := math.Float32frombits(f16ToF32Bits(xh)), math.Float32frombits(f16ToF32Bits(yh))
		if x32 == 0 && y32 == 0 {
			xNeg := xh>>15 == 1
			if wantMin {
				if xNeg {
					return a
				}
				return b
			}
			if xNeg {
				return b
			}
			return a
		}
		if (wantMin && x32 < y32) || (!wantMin && x32 > y32) {
			return a
		}
		return b
	default:
		return a
	}
}

// --- sign-bit ops: always succeed, bit manipulation only ---------------

// signBit returns the bit index of the sign bit for a given width.
func signBit(width int) uint {
	if width == 0 {
		return 0
	}
	return uint(width - 1)
}

// FNeg toggles the sign bit.
func FNeg(width int, a uint64) uint64 {
	return a ^ (uint64(1) << signBit(width))
}

// FAbs clears the sign bit.
func FAbs(width int, a uint64) uint64 {
	return a &^ (uint64(1) << signBit(width))
}

// FCopysign takes the magnitude bits of n and the sign bit of m.
func FCopysign(width int, n, m uint64) uint64 {
	bit := uint64(1) << signBit(width)
	return (n &^ bit) | (m & bit)
}

// FNeg128, FAbs128, FCopysign128 are the 128-bit sign-bit ops, operating
// only on the Hi half's top bit.
func FNeg128(v Float128) Float128 {
	v.Hi ^= uint64(1) << 63
	return v
}

func FAbs128(v Float128) Float128 {
	v.Hi &^= uint64(1) << 63
	return v
}

func FCopysign128(n, m Float128) Float128 {
	n.Hi = (n.Hi &^ (uint64(1) << 63)) | (m.Hi & (uint64(1) << 63))
	return n
}

// FMin128, FMax128 implement IEEE-754-2019 minimum/maximum for 128-bit
// floats — the only f128 arithmetic folds in scope besides the
// sign-bit ops.
func FMin128(a, b Float128) Float128 { return minMax128(a, b, true) }
func FMax128(a, b Float128) Float128 { return minMax128(a, b, false) }

// f128 layout: Hi bit 63 = sign, Hi bits 48-62 = 15-bit exponent,
// Hi bits 0-47 ++ Lo = 112-bit fraction.
func isNaN128(v Float128) bool {
	exp := (v.Hi >> 48) & 0x7FFF
	fracHi := v.Hi & 0xFFFFFFFFFFFF
	return exp == 0x7FFF && (fracHi != 0 || v.Lo != 0)
}

func isZero128(v Float128) bool {
	return v.Lo == 0 && v.Hi&0x7FFFFFFFFFFFFFFF == 0
}

func minMax128(a, b Float128, wantMin bool) Float128 {
	if isNaN128(a) {
		return a
	}
	if isNaN128(b) {
		return b
	}
	if isZero128(a) && isZero128(b) {
		aNeg := a.Hi>>63 == 1
		if wantMin {
			if aNeg {
				return a
			}
			return b
		}
		if aNeg {
			return b
		}
		return a
	}
	aLess := lessF128(a, b)
	if wantMin == aLess {
		return a
	}
	return b
}

// lessF128 compares two non-NaN f128 values. Exact bit-level comparison
// is sufficient for magnitude ordering once sign is handled, because
// IEEE-754 total ordering of non-negative finite/inf values matches
// unsigned integer ordering of their bit patterns.
func lessF128(a, b Float128) bool {
	aNeg, bNeg := a.Hi>>63 == 1, b.Hi>>63 == 1
	if aNeg != bNeg {
		return aNeg
	}
	if aNeg {
		// Both negative: larger magnitude is smaller value.
		if a.Hi != b.Hi {
			return a.Hi > b.Hi
		}
		return a.Lo > b.Lo
	}
	if a.Hi != b.Hi {
		return a.Hi < b.Hi
	}
	return a.Lo < b.Lo
}

// --- int -> float conversions -------------------------------------------

// FromUint produces the correctly-rounded IEEE result of converting an
// unsigned integer (masked to intWidth) to a float of the given width.
func FromUint(floatWidth, intWidth int, v uint64) uint64 {
	v = mask64(intWidth, v)
	switch floatWidth {
	case 32:
		return uint64(math.Float32bits(float32(v)))
	case 64:
		return math.Float64bits(float64(v))
	case 16:
		return uint64(f32BitsToF16(math.Float32bits(float32(v))))
	default:
		return 0
	}
}

// FromSint produces the correctly-rounded IEEE result of converting a
// signed integer (masked to intWidth, sign-extended) to a float of the
// given width.
func FromSint(floatWidth, intWidth int, v uint64) uint64 {
	sv := signExtendToI64(intWidth, v)
	switch floatWidth {
	case 32:
		return uint64(math.Float32bits(float32(sv)))
	case 64:
		return math.Float64bits(float64(sv))
	case 16:
		return uint64(f32BitsToF16(math.Float32bits(float32(sv))))
	default:
		return 0
	}
}

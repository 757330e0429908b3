package kernel

import (
	"math"
	"testing"
)

func TestFAddFolds(t *testing.T) {
	a := math.Float64bits(1.5)
	b := math.Float64bits(2.25)
	got, ok := FAdd(64, a, b)
	if !ok {
		t.Fatal("FAdd(1.5, 2.25) should succeed")
	}
	if math.Float64frombits(got) != 3.75 {
		t.Errorf("FAdd(1.5, 2.25) = %v, want 3.75", math.Float64frombits(got))
	}
}

func TestFAddNaNGuardFails(t *testing.T) {
	nan := math.Float64bits(math.NaN())
	one := math.Float64bits(1.0)
	if _, ok := FAdd(64, nan, one); ok {
		t.Error("FAdd with a NaN operand must fail the guard (rule does not fire)")
	}
}

func TestFNegRoundTrip(t *testing.T) {
	negZero := math.Float64bits(math.Copysign(0, -1))
	got := FNeg(64, negZero)
	if math.Float64frombits(got) != 0 || math.Signbit(math.Float64frombits(got)) {
		t.Errorf("FNeg(-0.0) should be +0.0, got %v", math.Float64frombits(got))
	}

	x := math.Float64bits(3.25)
	if FNeg(64, FNeg(64, x)) != x {
		t.Error("fneg(fneg(x)) should equal x")
	}
}

func TestFAbsFNegCommute(t *testing.T) {
	x := math.Float64bits(-3.25)
	if FAbs(64, FNeg(64, x)) != FAbs(64, x) {
		t.Error("fabs(fneg(x)) should equal fabs(x)")
	}
}

func TestFCopysignFNegCommute(t *testing.T) {
	x := math.Float64bits(5.0)
	y := math.Float64bits(7.0)
	lhs := FCopysign(64, x, FNeg(64, y))
	rhs := FNeg(64, FCopysign(64, x, y))
	if lhs != rhs {
		t.Error("fcopysign(x, fneg(y)) should equal fneg(fcopysign(x,y))")
	}
}

func TestFMinNegZeroLessThanPosZero(t *testing.T) {
	negZero := math.Float64bits(math.Copysign(0, -1))
	posZero := math.Float64bits(0)
	if got := FMin(64, negZero, posZero); got != negZero {
		t.Error("FMin(-0.0, +0.0) should be -0.0 per IEEE-754-2019 minimum")
	}
	if got := FMax(64, negZero, posZero); got != posZero {
		t.Error("FMax(-0.0, +0.0) should be +0.0 per IEEE-754-2019 maximum")
	}
}

func TestFloat16RoundTrip(t *testing.T) {
	// 1.5 is exactly representable in float16.
	f32 := math.Float32bits(1.5)
	h := f32BitsToF16(f32)
	back := f16ToF32Bits(h)
	if math.Float32frombits(back) != 1.5 {
		t.Errorf("float16 round-trip of 1.5 = %v, want 1.5", math.Float32frombits(back))
	}
}

func TestF16Add(t *testing.T) {
	h1 := f32BitsToF16(math.Float32bits(1.5))
	h2 := f32BitsToF16(math.Float32bits(2.0))
	sum, ok := FAdd(16, uint64(h1), uint64(h2))
	if !ok {
		t.Fatal("f16 add should succeed")
	}
	got := math.Float32frombits(f16ToF32Bits(uint16(sum)))
	if got != 3.5 {
		t.Errorf("f16 1.5+2.0 = %v, want 3.5", got)
	}
}

func TestFMin128NegZero(t *testing.T) {
	neg := Float128{Lo: 0, Hi: 1 << 63}
	pos := Float128{Lo: 0, Hi: 0}
	if got := FMin128(neg, pos); got != neg {
		t.Error("FMin128(-0, +0) should be -0")
	}
}

func TestFNeg128(t *testing.T) {
	v := Float128{Lo: 0x1234, Hi: 0x4000000000000000}
	neg := FNeg128(v)
	if neg.Hi>>63 != 1 {
		t.Error("FNeg128 should set the sign bit")
	}
	if FNeg128(neg) != v {
		t.Error("FNeg128(FNeg128(v)) should equal v")
	}
}

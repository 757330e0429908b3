package kernel

import "testing"

func TestAddWraps(t *testing.T) {
	if got := Add(8, 0xFF, 0x02); got != 0x01 {
		t.Errorf("Add(8, 0xFF, 0x02) = %#x, want 0x01", got)
	}
}

func TestUDiv(t *testing.T) {
	got, ok := UDiv(32, 13, 7)
	if !ok || got != 1 {
		t.Errorf("UDiv(32, 13, 7) = (%d, %v), want (1, true)", got, ok)
	}
	if _, ok := UDiv(32, 5, 0); ok {
		t.Error("UDiv by zero should fail the guard")
	}
}

func TestSDiv(t *testing.T) {
	// sdiv(-7, 7) == -1
	got, ok := SDiv(32, 0xFFFFFFF9, 7) // 0xFFFFFFF9 is -7 as i32
	if !ok || int32(got) != -1 {
		t.Errorf("SDiv(32, -7, 7) = (%d, %v), want (-1, true)", int32(got), ok)
	}

	// INT_MIN / -1 must fail the guard.
	if _, ok := SDiv(32, 0x80000000, 0xFFFFFFFF); ok { // 0xFFFFFFFF is -1 as i32
		t.Error("SDiv(INT_MIN, -1) should fail the guard")
	}

	if _, ok := SDiv(32, 5, 0); ok {
		t.Error("SDiv by zero should fail the guard")
	}
}

func TestShiftsModWidth(t *testing.T) {
	if got := Shl(8, 1, 8); got != 1 {
		t.Errorf("Shl(8, 1, 8) = %#x, want 1 (shift amount taken mod width)", got)
	}
	if got := Ushr(8, 0x80, 8); got != 0x80 {
		t.Errorf("Ushr(8, 0x80, 8) = %#x, want 0x80", got)
	}
}

func TestSshrSignExtends(t *testing.T) {
	got := Sshr(8, 0x80, 1)
	if got != 0xC0 {
		t.Errorf("Sshr(8, 0x80, 1) = %#x, want 0xC0", got)
	}
}

func TestBswap(t *testing.T) {
	if got := Bswap32(0x11223344); got != 0x44332211 {
		t.Errorf("Bswap32(0x11223344) = %#x, want 0x44332211", got)
	}
	if got := Bswap16(0x1122); got != 0x2211 {
		t.Errorf("Bswap16(0x1122) = %#x, want 0x2211", got)
	}
	if got := Bswap64(0x0102030405060708); got != 0x0807060504030201 {
		t.Errorf("Bswap64 = %#x, want 0x0807060504030201", got)
	}
}

func TestExtensions(t *testing.T) {
	if got := Uextend(8, 32, 0xFF); got != 0xFF {
		t.Errorf("Uextend(8, 32, 0xFF) = %#x, want 0xFF", got)
	}
	if got := Sextend(8, 32, 0xFF); got != 0xFFFFFFFF {
		t.Errorf("Sextend(8, 32, 0xFF) = %#x, want 0xFFFFFFFF", got)
	}
}

func TestIcmp(t *testing.T) {
	if Icmp(32, CondUlt, 3, 5) != 1 {
		t.Error("Icmp ult 3 5 should be 1")
	}
	if Icmp(8, CondSlt, 0xFF, 0x01) != 1 {
		t.Error("Icmp slt -1 1 (8-bit) should be 1")
	}
}

func TestIcmpSwapRoundTrip(t *testing.T) {
	// ult(a, b) == ugt(b, a): exercised indirectly through CondCode
	// semantics mirrored from ir.CondCode.Swap.
	a, b := uint64(3), uint64(9)
	if Icmp(32, CondUlt, a, b) != Icmp(32, CondUgt, b, a) {
		t.Error("ult(a,b) should equal ugt(b,a)")
	}
}

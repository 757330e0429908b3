package ir

import "testing"

func TestEquivStoreUnionFind(t *testing.T) {
	s := NewEquivStore(4)
	s.Union(0, 1)
	s.Union(2, 3)

	if !s.Equivalent(0, 1) {
		t.Error("0 and 1 should be equivalent after Union(0, 1)")
	}
	if s.Equivalent(0, 2) {
		t.Error("0 and 2 should not be equivalent")
	}

	s.Union(1, 2)
	if !s.Equivalent(0, 3) {
		t.Error("0 and 3 should be equivalent transitively after Union(1, 2)")
	}
}

func TestEquivStoreGrow(t *testing.T) {
	s := NewEquivStore(0)
	s.Grow(5)
	if s.Find(5) != 5 {
		t.Errorf("Find(5) = %d, want 5 (self-root after Grow)", s.Find(5))
	}
}

func TestBuilderCanonical(t *testing.T) {
	f := NewFunc("f")
	i32 := Int(32)
	a := f.ConstInt(i32, 2)
	b := f.ConstInt(i32, 5)
	sum := f.NewInstr(OpIadd, i32, a, b)
	folded := f.ConstInt(i32, 7)

	f.SetEquiv(sum, folded, true)

	if got := f.Canonical(sum); got != folded {
		t.Errorf("Canonical(sum) = v%d, want v%d", got.ID, folded.ID)
	}
	if sum.State != StateSubsumed {
		t.Errorf("sum.State = %v, want StateSubsumed", sum.State)
	}
}

func TestConstIntDeduplicates(t *testing.T) {
	f := NewFunc("f")
	i32 := Int(32)
	a := f.ConstInt(i32, 42)
	b := f.ConstInt(i32, 42)
	if a != b {
		t.Error("ConstInt should deduplicate identical (type, bits) constants")
	}
}

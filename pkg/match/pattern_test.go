package match

import (
	"testing"

	"github.com/oisee/ssa-rewrite/pkg/ir"
)

func TestOpMatchesArgsInOrder(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	a := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 1)})
	b := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 2)})
	sum := f.NewInstr(ir.OpIadd, ty, a, b)

	pat := Op(ir.OpIadd, IconstPat(ty, "x"), IconstPat(ty, "y"))
	bnd := NewBindings()
	if !pat.Match(sum, bnd) {
		t.Fatal("expected iadd(iconst, iconst) to match")
	}
	x, _ := bnd.Bits("x")
	y, _ := bnd.Bits("y")
	if x != 1 || y != 2 {
		t.Errorf("bound x=%d y=%d, want 1, 2", x, y)
	}
}

func TestOpRejectsWrongOpcode(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	a := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 1)})
	b := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 2)})
	sub := f.NewInstr(ir.OpIsub, ty, a, b)

	pat := Op(ir.OpIadd, Any(), Any())
	if pat.Match(sub, NewBindings()) {
		t.Error("isub should not match an iadd pattern")
	}
}

func TestRefRequiresStructuralEquality(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	x := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 7)})
	y := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 7)})

	same := f.NewInstr(ir.OpIsub, ty, x, x)
	diff := f.NewInstr(ir.OpIsub, ty, x, y)

	pat := Op(ir.OpIsub, Wild("x"), Ref("x"))
	if !pat.Match(same, NewBindings()) {
		t.Error("isub(x, x) should match Wild/Ref alias")
	}
	if pat.Match(diff, NewBindings()) {
		t.Error("isub(x, y) with equal bits but distinct values should not match Wild/Ref alias")
	}
}

func TestNotConst(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	c := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 1)})
	nc := f.NewInstr(ir.OpBnot, ty, c)

	if NotConst().Match(c, NewBindings()) {
		t.Error("NotConst should reject a literal constant")
	}
	if !NotConst().Match(nc, NewBindings()) {
		t.Error("NotConst should accept a non-constant value")
	}
}

func TestGuardReceivesBindings(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	zero := f.NewValue(ir.Instruction{Op: ir.OpIconst, Type: ty, Imm: ir.NewImmediate(32, 0)})
	pat := IconstPat(ty, "k")
	bnd := NewBindings()
	if !pat.Match(zero, bnd) {
		t.Fatal("expected iconst match")
	}
	g := Guard(func(b *Bindings) bool {
		k, _ := b.Bits("k")
		return k == 0
	})
	if !g(bnd) {
		t.Error("guard should see the bound constant bits")
	}
}

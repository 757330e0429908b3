package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oisee/ssa-rewrite/pkg/ir"
)

func TestConstantFoldingChain(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	a := f.ConstInt(ty, 3)
	b := f.ConstInt(ty, 4)
	sum := f.NewInstr(ir.OpIadd, ty, a, b)
	c := f.ConstInt(ty, 5)
	prod := f.NewInstr(ir.OpImul, ty, sum, c)

	NewDriver().Run(f)

	canon := f.Canonical(prod)
	bits, ok := canon.ConstBits()
	require.True(t, ok, "expected prod to canonicalize to a constant")
	assert.Equal(t, uint64(35), bits, "(3+4)*5 should fold to 35")
}

func TestIdentityFoldsAwayAdd(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	x := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 0))
	zero := f.ConstInt(ty, 0)
	sum := f.NewInstr(ir.OpIadd, ty, x, zero)

	NewDriver().Run(f)

	assert.Equal(t, f.Canonical(x), f.Canonical(sum), "x + 0 should canonicalize to x")
}

func TestCommutativeCanonicalOrderingMakesConstFoldFire(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	k := f.ConstInt(ty, 9)
	x := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 0))
	// iadd(k, x) — const on the left; canonicalization should swap it to
	// iadd(x, k) before any identity/const-fold rule inspects it.
	sum := f.NewInstr(ir.OpIadd, ty, k, x)

	NewDriver().Run(f)

	canon := f.Canonical(sum)
	require.True(t, isOp(canon, ir.OpIadd), "expected a residual iadd, got %s", canon.Instr.Op)
	a0 := f.Canonical(canon.Instr.Args[0])
	a1 := f.Canonical(canon.Instr.Args[1])
	assert.False(t, a0.IsConst(), "expected the non-constant operand first")
	assert.True(t, a1.IsConst(), "expected the constant operand moved to the right")
}

func TestSkeletonTrapNeverFiresDeletesInstruction(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	one := f.ConstInt(ty, 1)
	trap := f.NewValue(ir.Instruction{Op: ir.OpTrapz, Type: ty, Args: []*ir.Value{one}, Effect: ir.Skeleton})

	NewDriver().Run(f)

	assert.Equal(t, ir.StateDeleted, trap.State, "trapz on a nonzero constant should be deleted")
}

func TestUaddOverflowTrapFoldsToPlainSum(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(8)
	a := f.ConstInt(ty, 10)
	b := f.ConstInt(ty, 20)
	trap := f.NewValue(ir.Instruction{Op: ir.OpUaddOverflowTrap, Type: ty, Args: []*ir.Value{a, b}, Effect: ir.Skeleton})

	NewDriver().Run(f)

	canon := f.Canonical(trap)
	bits, ok := canon.ConstBits()
	require.True(t, ok, "expected the non-overflowing trap to fold to a constant")
	assert.Equal(t, uint64(30), bits)
}

func TestUaddOverflowTrapStaysWhenOverflowing(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(8)
	a := f.ConstInt(ty, 250)
	b := f.ConstInt(ty, 20)
	trap := f.NewValue(ir.Instruction{Op: ir.OpUaddOverflowTrap, Type: ty, Args: []*ir.Value{a, b}, Effect: ir.Skeleton})

	NewDriver().Run(f)

	assert.NotEqual(t, ir.StateDeleted, trap.State, "an overflowing uadd_overflow_trap must not be deleted")
	_, ok := trap.ConstBits()
	assert.False(t, ok, "an overflowing uadd_overflow_trap must not fold to a constant")
}

func TestSelectIdenticalArms(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	condTy := ir.Int(32)
	c := f.NewInstr(ir.OpBnot, condTy, f.ConstInt(condTy, 0))
	x := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 1))
	sel := f.NewInstr(ir.OpSelect, ty, c, x, x)

	NewDriver().Run(f)

	assert.Equal(t, f.Canonical(x), f.Canonical(sel), "select c, x, x should canonicalize to x")
}

func TestIcmpRangeConstFold(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	x := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 0))
	zero := f.ConstInt(ty, 0)
	cmp := f.NewValue(ir.Instruction{Op: ir.OpIcmp, Type: ir.Int(32), Args: []*ir.Value{x, zero}, Cond: ir.CondUlt})

	NewDriver().Run(f)

	canon := f.Canonical(cmp)
	bits, ok := canon.ConstBits()
	require.True(t, ok, "ult x, 0 should always fold to a constant")
	assert.Equal(t, uint64(0), bits)
}

func TestShiftReassociationCollectsConstants(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	x := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 0))
	inner := f.NewInstr(ir.OpIshl, ty, x, f.ConstInt(ty, 3))
	outer := f.NewInstr(ir.OpIshl, ty, inner, f.ConstInt(ty, 5))

	NewDriver().Run(f)

	canon := f.Canonical(outer)
	require.True(t, isOp(canon, ir.OpIshl), "expected a residual ishl, got %s", canon.Instr.Op)
	a0 := f.Canonical(canon.Instr.Args[0])
	a1 := f.Canonical(canon.Instr.Args[1])
	assert.Equal(t, f.Canonical(x), a0, "expected the shifted value unchanged")
	bits, ok := a1.ConstBits()
	require.True(t, ok, "expected the shift amount to be a constant")
	assert.Equal(t, uint64(8), bits, "ishl(ishl(x,3),5) should collect into ishl(x,8)")
}

func TestEqualityReassociationCollapsesAddedConstant(t *testing.T) {
	f := ir.NewFunc("t")
	ty := ir.Int(32)
	x := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 0))
	inner := f.NewInstr(ir.OpIadd, ty, x, f.ConstInt(ty, 5))
	cmp := f.NewValue(ir.Instruction{Op: ir.OpIcmp, Type: ir.Int(32), Args: []*ir.Value{inner, f.ConstInt(ty, 12)}, Cond: ir.CondEq})

	NewDriver().Run(f)

	canon := f.Canonical(cmp)
	require.True(t, isOp(canon, ir.OpIcmp), "expected a residual icmp, got %s", canon.Instr.Op)
	assert.Equal(t, ir.CondEq, canon.Instr.Cond)
	a0 := f.Canonical(canon.Instr.Args[0])
	a1 := f.Canonical(canon.Instr.Args[1])
	assert.Equal(t, f.Canonical(x), a0, "expected the comparison's left operand to be x")
	bits, ok := a1.ConstBits()
	require.True(t, ok, "expected the right operand to fold to a constant")
	assert.Equal(t, uint64(7), bits, "eq(iadd x 5, 12) should reassociate to eq(x, 7)")
}

func TestFatalErrorOnNonTerminatingRule(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic from a non-terminating rule")
		_, ok := r.(*FatalError)
		assert.True(t, ok, "expected *FatalError, got %T: %v", r, r)
	}()

	f := ir.NewFunc("t")
	ty := ir.Int(32)
	v := f.NewInstr(ir.OpBnot, ty, f.ConstInt(ty, 0))

	d := &Driver{Rules: []Rule{
		{
			Name:      "loop-forever",
			Namespace: Simplify,
			Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
				if !isOp(v, ir.OpBnot) {
					return noMatch()
				}
				nv := f.NewInstr(ir.OpBnot, v.Type, v.Instr.Args[0])
				return replace(f, v, nv)
			},
		},
	}}
	d.Run(f)
	_ = v
}

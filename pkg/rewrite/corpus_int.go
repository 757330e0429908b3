package rewrite

import (
	"github.com/oisee/ssa-rewrite/pkg/ir"
	"github.com/oisee/ssa-rewrite/pkg/kernel"
)

// commutativeCanonicalize returns a rule that canonicalizes a
// commutative binary op's operand order: a literal constant always
// moves to the right-hand operand, and two non-constant operands are
// ordered by ascending ValueID. This is declared first in the corpus
// for each commutative opcode so every later fold (which only ever
// looks at arg1 for a constant) sees a canonical shape.
func commutativeCanonicalize(op ir.Opcode) Rule {
	return Rule{
		Name:      op.String() + "/canon-order",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a, b := binArgs(f, v)
			swap := (a.IsConst() && !b.IsConst()) || (!a.IsConst() && !b.IsConst() && a.ID > b.ID)
			if !swap {
				return noMatch()
			}
			nv := f.NewInstr(op, v.Type, b, a)
			return replace(f, v, nv)
		},
	}
}

func foldIconstBinary(op ir.Opcode, fn func(width int, a, b uint64) uint64) Rule {
	return Rule{
		Name:      op.String() + "/fold-const",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a, b := binArgs(f, v)
			ab, ok1 := a.ConstBits()
			bb, ok2 := b.ConstBits()
			if !ok1 || !ok2 {
				return noMatch()
			}
			return replace(f, v, f.ConstInt(v.Type, fn(v.Type.Width, ab, bb)))
		},
	}
}

func foldIconstBinaryGuarded(op ir.Opcode, fn func(width int, a, b uint64) (uint64, bool)) Rule {
	return Rule{
		Name:      op.String() + "/fold-const-guarded",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a, b := binArgs(f, v)
			ab, ok1 := a.ConstBits()
			bb, ok2 := b.ConstBits()
			if !ok1 || !ok2 {
				return noMatch()
			}
			result, ok := fn(v.Type.Width, ab, bb)
			if !ok {
				return noMatch()
			}
			return replace(f, v, f.ConstInt(v.Type, result))
		},
	}
}

// identityRHS folds `op x, k` to x whenever k equals identity (e.g.
// iadd x,0 -> x; imul x,1 -> x).
func identityRHS(op ir.Opcode, identity uint64) Rule {
	return Rule{
		Name:      op.String() + "/identity",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a, b := binArgs(f, v)
			k, ok := b.ConstBits()
			if !ok || ir.Mask64(v.Type.Width, k) != ir.Mask64(v.Type.Width, identity) {
				return noMatch()
			}
			return replace(f, v, a)
		},
	}
}

// absorbingRHS folds `op x, k` to the constant k whenever k is an
// absorbing element (e.g. imul x,0 -> 0; band x,0 -> 0; bor x,-1 -> -1).
func absorbingRHS(op ir.Opcode, absorbing uint64) Rule {
	return Rule{
		Name:      op.String() + "/absorb",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			_, b := binArgs(f, v)
			k, ok := b.ConstBits()
			if !ok || ir.Mask64(v.Type.Width, k) != ir.Mask64(v.Type.Width, absorbing) {
				return noMatch()
			}
			return replace(f, v, f.ConstInt(v.Type, absorbing))
		},
	}
}

// selfIdentity folds `op x, x` (same Value on both sides) to a fixed
// result — e.g. isub x,x -> 0; bxor x,x -> 0; band x,x -> x; bor x,x -> x.
func selfIdentity(op ir.Opcode, result func(f *ir.Func, v, x *ir.Value) *ir.Value) Rule {
	return Rule{
		Name:      op.String() + "/self",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a, b := binArgs(f, v)
			if a != b {
				return noMatch()
			}
			return replace(f, v, result(f, v, a))
		},
	}
}

// doubleBnot folds bnot(bnot(x)) -> x.
var doubleBnot = Rule{
	Name:      "bnot/double",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpBnot) {
			return noMatch()
		}
		inner := arg(f, v, 0)
		if !isOp(inner, ir.OpBnot) {
			return noMatch()
		}
		return replace(f, v, arg(f, inner, 0))
	},
}

// subToAddNeg folds `isub x, k` to `iadd x, -k` when k is a negative
// literal (bit 63/width-1 set), a canonicalization that lets the iadd
// commutative/constant-fold rules subsume the result uniformly.
var subToAddNeg = Rule{
	Name:      "isub/to-add-neg",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIsub) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		k, ok := b.ConstBits()
		if !ok {
			return noMatch()
		}
		signBit := uint64(1) << uint(v.Type.Width-1)
		if v.Type.Width >= 64 {
			signBit = 1 << 63
		}
		if k&signBit == 0 || k == signBit {
			// Non-negative, or INT_MIN (negating it would overflow the
			// represented range) — leave as isub.
			return noMatch()
		}
		negK := f.ConstInt(v.Type, kernel.NegInt(v.Type.Width, k))
		nv := f.NewInstr(ir.OpIadd, v.Type, a, negK)
		return replace(f, v, nv)
	},
}

// subLeftConstToNeg folds `isub k, x` (k a nonzero literal on the left,
// x not itself a constant) into `isub 0, (isub x, k)` — isub is
// non-commutative, so a constant on the left is canonicalized by
// negating the equivalent right-constant subtraction rather than
// swapped in place. k == 0 is excluded: it is already the terminal
// shape this rule produces, and re-matching it would oscillate against
// lawNegOfSub below.
var subLeftConstToNeg = Rule{
	Name:      "isub/left-const-to-neg",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIsub) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		k, ok := a.ConstBits()
		if !ok || k == 0 || b.IsConst() {
			return noMatch()
		}
		inner := f.NewInstr(ir.OpIsub, v.Type, b, a)
		nv := f.NewInstr(ir.OpIsub, v.Type, f.ConstInt(v.Type, 0), inner)
		return replace(f, v, nv)
	},
}

// icmpCommuteSwap canonicalizes `icmp cc k, x` (constant on the left)
// to `icmp swap(cc), x, k`, mirroring the commutative-op canonicalization
// so icmp/range-const and icmp/fold-const can always assume the
// constant operand (if any) is on the right.
var icmpCommuteSwap = Rule{
	Name:      "icmp/commute-swap",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		if !a.IsConst() || b.IsConst() {
			return noMatch()
		}
		nv := f.NewValue(ir.Instruction{
			Op: ir.OpIcmp, Type: v.Type,
			Args: []*ir.Value{b, a}, Cond: v.Instr.Cond.Swap(),
		})
		return replace(f, v, nv)
	},
}

// associativeCombine folds `(x ⊕ k1) ⊕ k2` into `x ⊕ (k1 ⊕ k2)` for a
// commutative-associative op ⊕, once commutativeCanonicalize has
// already pushed each layer's constant operand to the right.
func associativeCombine(op ir.Opcode, combine func(width int, a, b uint64) uint64) Rule {
	return Rule{
		Name:      op.String() + "/assoc-combine",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			inner, k2v := binArgs(f, v)
			k2, ok := k2v.ConstBits()
			if !ok || !isOp(inner, op) {
				return noMatch()
			}
			x, k1v := binArgs(f, inner)
			k1, ok1 := k1v.ConstBits()
			if !ok1 || x.IsConst() {
				return noMatch()
			}
			merged := combine(v.Type.Width, k1, k2)
			nv := f.NewInstr(op, v.Type, x, f.ConstInt(v.Type, merged))
			return replace(f, v, nv)
		},
	}
}

// associativeCrossCombine folds `(a ⊕ b_const) ⊕ (c ⊕ d_const)` into
// `(a ⊕ c) ⊕ (b_const ⊕ d_const)`, collecting both layers' constants
// into a single trailing operand.
func associativeCrossCombine(op ir.Opcode, combine func(width int, a, b uint64) uint64) Rule {
	return Rule{
		Name:      op.String() + "/assoc-cross-combine",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			left, right := binArgs(f, v)
			if !isOp(left, op) || !isOp(right, op) {
				return noMatch()
			}
			a, bConst := binArgs(f, left)
			c, dConst := binArgs(f, right)
			bc, ok1 := bConst.ConstBits()
			dc, ok2 := dConst.ConstBits()
			if !ok1 || !ok2 || a.IsConst() || c.IsConst() {
				return noMatch()
			}
			merged := combine(v.Type.Width, bc, dc)
			innerSum := f.NewInstr(op, v.Type, a, c)
			nv := f.NewInstr(op, v.Type, innerSum, f.ConstInt(v.Type, merged))
			return replace(f, v, nv)
		},
	}
}

// lawSubThenAdd folds `(x - c1) + c2` into `x + (c2 - c1)`.
var lawSubThenAdd = Rule{
	Name:      "iadd/sub-then-add",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIadd) {
			return noMatch()
		}
		inner, c2v := binArgs(f, v)
		c2, ok := c2v.ConstBits()
		if !ok || !isOp(inner, ir.OpIsub) {
			return noMatch()
		}
		x, c1v := binArgs(f, inner)
		c1, ok1 := c1v.ConstBits()
		if !ok1 || x.IsConst() {
			return noMatch()
		}
		nv := f.NewInstr(ir.OpIadd, v.Type, x, f.ConstInt(v.Type, kernel.Sub(v.Type.Width, c2, c1)))
		return replace(f, v, nv)
	},
}

// lawAddThenSub folds `(x + c1) - c2` into `x + (c1 - c2)`.
var lawAddThenSub = Rule{
	Name:      "isub/add-then-sub",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIsub) {
			return noMatch()
		}
		inner, c2v := binArgs(f, v)
		c2, ok := c2v.ConstBits()
		if !ok || !isOp(inner, ir.OpIadd) {
			return noMatch()
		}
		x, c1v := binArgs(f, inner)
		c1, ok1 := c1v.ConstBits()
		if !ok1 || x.IsConst() {
			return noMatch()
		}
		nv := f.NewInstr(ir.OpIadd, v.Type, x, f.ConstInt(v.Type, kernel.Sub(v.Type.Width, c1, c2)))
		return replace(f, v, nv)
	},
}

// lawNegThenAdd folds `(c1 - x) + c2` into `(c1 + c2) - x`.
var lawNegThenAdd = Rule{
	Name:      "iadd/negsub-then-add",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIadd) {
			return noMatch()
		}
		inner, c2v := binArgs(f, v)
		c2, ok := c2v.ConstBits()
		if !ok || !isOp(inner, ir.OpIsub) {
			return noMatch()
		}
		c1v, x := binArgs(f, inner)
		c1, ok1 := c1v.ConstBits()
		if !ok1 || x.IsConst() {
			return noMatch()
		}
		nv := f.NewInstr(ir.OpIsub, v.Type, f.ConstInt(v.Type, kernel.Add(v.Type.Width, c1, c2)), x)
		return replace(f, v, nv)
	},
}

// lawNegOfAdd folds `c1 - (x + c2)` into `(c1 - c2) - x`.
var lawNegOfAdd = Rule{
	Name:      "isub/negsub-of-add",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIsub) {
			return noMatch()
		}
		c1v, inner := binArgs(f, v)
		c1, ok1 := c1v.ConstBits()
		if !ok1 || !isOp(inner, ir.OpIadd) {
			return noMatch()
		}
		x, c2v := binArgs(f, inner)
		c2, ok2 := c2v.ConstBits()
		if !ok2 || x.IsConst() {
			return noMatch()
		}
		nv := f.NewInstr(ir.OpIsub, v.Type, f.ConstInt(v.Type, kernel.Sub(v.Type.Width, c1, c2)), x)
		return replace(f, v, nv)
	},
}

// lawNegOfSub folds `c1 - (x - c2)` into `(c1 + c2) - x`. c1 == 0 is
// excluded: that shape is exactly what subLeftConstToNeg produces as
// its terminal form, and folding it here would hand the result right
// back to subLeftConstToNeg, oscillating forever.
var lawNegOfSub = Rule{
	Name:      "isub/negsub-of-sub",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIsub) {
			return noMatch()
		}
		c1v, inner := binArgs(f, v)
		c1, ok1 := c1v.ConstBits()
		if !ok1 || c1 == 0 || !isOp(inner, ir.OpIsub) {
			return noMatch()
		}
		x, c2v := binArgs(f, inner)
		c2, ok2 := c2v.ConstBits()
		if !ok2 || x.IsConst() {
			return noMatch()
		}
		nv := f.NewInstr(ir.OpIsub, v.Type, f.ConstInt(v.Type, kernel.Add(v.Type.Width, c1, c2)), x)
		return replace(f, v, nv)
	},
}

// shiftReassociate folds `(x shift c1) shift c2` into `x shift
// (c1+c2)` for the same shift op applied twice in a row — used to
// collect shift-amount constants for folding (e.g. ishl x,3 then
// ishl ...,5 becomes a single ishl x,8). Each amount is first taken
// mod width, as the kernel's shifts do; when the two reduced amounts
// add up to the width or more the rule does not fire, since one shift
// by that sum would not equal the two separate shifts.
func shiftReassociate(op ir.Opcode) Rule {
	return Rule{
		Name:      op.String() + "/shift-reassoc",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			inner, c2v := binArgs(f, v)
			c2, ok := c2v.ConstBits()
			if !ok || !isOp(inner, op) {
				return noMatch()
			}
			x, c1v := binArgs(f, inner)
			c1, ok1 := c1v.ConstBits()
			if !ok1 || x.IsConst() {
				return noMatch()
			}
			w := uint64(v.Type.Width)
			total := c1%w + c2%w
			if total >= w {
				return noMatch()
			}
			nv := f.NewInstr(op, v.Type, x, f.ConstInt(v.Type, total))
			return replace(f, v, nv)
		},
	}
}

// shiftByZero folds any of ishl/ushr/sshr x,0 -> x.
func shiftByZero(op ir.Opcode) Rule {
	return Rule{
		Name:      op.String() + "/shift-zero",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a, b := binArgs(f, v)
			amt, ok := b.ConstBits()
			if !ok || amt%uint64(v.Type.Width) != 0 {
				return noMatch()
			}
			return replace(f, v, a)
		},
	}
}

var bswapFold = Rule{
	Name:      "bswap/fold-const",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpBswap) {
			return noMatch()
		}
		a := arg(f, v, 0)
		bits, ok := a.ConstBits()
		if !ok {
			return noMatch()
		}
		return replace(f, v, f.ConstInt(v.Type, kernel.Bswap(v.Type.Width, bits)))
	},
}

func foldExtend(op ir.Opcode, fn func(from, to int, v uint64) uint64) Rule {
	return Rule{
		Name:      op.String() + "/fold-const",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a := arg(f, v, 0)
			bits, ok := a.ConstBits()
			if !ok {
				return noMatch()
			}
			return replace(f, v, f.ConstInt(v.Type, fn(v.Instr.FromW, v.Type.Width, bits)))
		},
	}
}

var ireduceFold = Rule{
	Name:      "ireduce/fold-const",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIreduce) {
			return noMatch()
		}
		a := arg(f, v, 0)
		bits, ok := a.ConstBits()
		if !ok {
			return noMatch()
		}
		return replace(f, v, f.ConstInt(v.Type, ir.Mask64(v.Type.Width, bits)))
	},
}

var icmpFold = Rule{
	Name:      "icmp/fold-const",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		ab, ok1 := a.ConstBits()
		bb, ok2 := b.ConstBits()
		if !ok1 || !ok2 {
			return noMatch()
		}
		result := kernel.Icmp(a.Type.Width, kernel.CondCode(v.Instr.Cond), ab, bb)
		return replace(f, v, f.ConstInt(v.Type, result))
	},
}

// icmpSameOperand folds `icmp cc x, x` using the reflexive relations
// that hold regardless of x's runtime value: eq/sle/sge/ule/uge -> 1,
// ne/slt/sgt/ult/ugt -> 0.
var icmpSameOperand = Rule{
	Name:      "icmp/same-operand",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		if a != b {
			return noMatch()
		}
		var result uint64
		switch v.Instr.Cond {
		case ir.CondEq, ir.CondSle, ir.CondSge, ir.CondUle, ir.CondUge:
			result = 1
		case ir.CondNe, ir.CondSlt, ir.CondSgt, ir.CondUlt, ir.CondUgt:
			result = 0
		default:
			return noMatch()
		}
		return replace(f, v, f.ConstInt(v.Type, result))
	},
}

// icmpAgainstTypeRange folds an unsigned comparison against the type's
// extreme values, which always resolves regardless of the other
// operand: `ult x, 0` -> false; `uge x, 0` -> true; `ugt x, MAX` ->
// false; `ule x, MAX` -> true.
var icmpAgainstTypeRange = Rule{
	Name:      "icmp/range-const",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		k, ok := b.ConstBits()
		if !ok || a.IsConst() {
			return noMatch()
		}
		width := a.Type.Width
		maxU := ir.Mask64(width, ^uint64(0))
		switch {
		case v.Instr.Cond == ir.CondUlt && k == 0:
			return replace(f, v, f.ConstInt(v.Type, 0))
		case v.Instr.Cond == ir.CondUge && k == 0:
			return replace(f, v, f.ConstInt(v.Type, 1))
		case v.Instr.Cond == ir.CondUgt && k == maxU:
			return replace(f, v, f.ConstInt(v.Type, 0))
		case v.Instr.Cond == ir.CondUle && k == maxU:
			return replace(f, v, f.ConstInt(v.Type, 1))
		default:
			return noMatch()
		}
	},
}

// equalityReassocAddAdd folds `x + k1 == y + k2` (cc eq or ne) into
// `x == y + (k2 - k1)`, computing the offset symbolically and relying
// on the integer-folding rules above to collapse it once y's side is
// itself constant.
var equalityReassocAddAdd = Rule{
	Name:      "icmp/eq-reassoc-add-add",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) || (v.Instr.Cond != ir.CondEq && v.Instr.Cond != ir.CondNe) {
			return noMatch()
		}
		lhs, rhs := binArgs(f, v)
		if !isOp(lhs, ir.OpIadd) || !isOp(rhs, ir.OpIadd) {
			return noMatch()
		}
		x, k1v := binArgs(f, lhs)
		y, k2v := binArgs(f, rhs)
		k1, ok1 := k1v.ConstBits()
		k2, ok2 := k2v.ConstBits()
		if !ok1 || !ok2 || x.IsConst() || y.IsConst() {
			return noMatch()
		}
		newRHS := f.NewInstr(ir.OpIadd, y.Type, y, f.ConstInt(y.Type, kernel.Sub(y.Type.Width, k2, k1)))
		nv := f.NewValue(ir.Instruction{
			Op: ir.OpIcmp, Type: v.Type,
			Args: []*ir.Value{x, newRHS}, Cond: v.Instr.Cond,
		})
		return replace(f, v, nv)
	},
}

// equalityReassocAdd folds `x + k1 == k2` (cc eq or ne) into
// `x == (k2 - k1)`.
var equalityReassocAdd = Rule{
	Name:      "icmp/eq-reassoc-add",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) || (v.Instr.Cond != ir.CondEq && v.Instr.Cond != ir.CondNe) {
			return noMatch()
		}
		lhs, rhs := binArgs(f, v)
		k2, ok2 := rhs.ConstBits()
		if !ok2 || !isOp(lhs, ir.OpIadd) {
			return noMatch()
		}
		x, k1v := binArgs(f, lhs)
		k1, ok1 := k1v.ConstBits()
		if !ok1 || x.IsConst() {
			return noMatch()
		}
		newRHS := f.ConstInt(x.Type, kernel.Sub(x.Type.Width, k2, k1))
		nv := f.NewValue(ir.Instruction{
			Op: ir.OpIcmp, Type: v.Type,
			Args: []*ir.Value{x, newRHS}, Cond: v.Instr.Cond,
		})
		return replace(f, v, nv)
	},
}

// equalityReassocSub folds `x - k1 == k2` (cc eq or ne) into
// `x == (k2 + k1)`.
var equalityReassocSub = Rule{
	Name:      "icmp/eq-reassoc-sub",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpIcmp) || (v.Instr.Cond != ir.CondEq && v.Instr.Cond != ir.CondNe) {
			return noMatch()
		}
		lhs, rhs := binArgs(f, v)
		k2, ok2 := rhs.ConstBits()
		if !ok2 || !isOp(lhs, ir.OpIsub) {
			return noMatch()
		}
		x, k1v := binArgs(f, lhs)
		k1, ok1 := k1v.ConstBits()
		if !ok1 || x.IsConst() {
			return noMatch()
		}
		newRHS := f.ConstInt(x.Type, kernel.Add(x.Type.Width, k2, k1))
		nv := f.NewValue(ir.Instruction{
			Op: ir.OpIcmp, Type: v.Type,
			Args: []*ir.Value{x, newRHS}, Cond: v.Instr.Cond,
		})
		return replace(f, v, nv)
	},
}

// intCorpus is the portion of StandardCorpus covering integer
// arithmetic, bitwise, shift and comparison opcodes.
func intCorpus() []Rule {
	rs := []Rule{
		commutativeCanonicalize(ir.OpIadd),
		commutativeCanonicalize(ir.OpImul),
		commutativeCanonicalize(ir.OpBor),
		commutativeCanonicalize(ir.OpBand),
		commutativeCanonicalize(ir.OpBxor),
		icmpCommuteSwap,

		subToAddNeg,
		subLeftConstToNeg,

		foldIconstBinary(ir.OpIadd, kernel.Add),
		foldIconstBinary(ir.OpIsub, kernel.Sub),
		foldIconstBinary(ir.OpImul, kernel.Mul),
		foldIconstBinaryGuarded(ir.OpUdiv, kernel.UDiv),
		foldIconstBinaryGuarded(ir.OpSdiv, kernel.SDiv),
		foldIconstBinary(ir.OpBor, kernel.Or),
		foldIconstBinary(ir.OpBand, kernel.And),
		foldIconstBinary(ir.OpBxor, kernel.Xor),
		foldIconstBinary(ir.OpIshl, kernel.Shl),
		foldIconstBinary(ir.OpUshr, kernel.Ushr),
		foldIconstBinary(ir.OpSshr, kernel.Sshr),

		identityRHS(ir.OpIadd, 0),
		identityRHS(ir.OpIsub, 0),
		identityRHS(ir.OpImul, 1),
		identityRHS(ir.OpBor, 0),
		identityRHS(ir.OpBxor, 0),
		identityRHS(ir.OpBand, ^uint64(0)),

		absorbingRHS(ir.OpImul, 0),
		absorbingRHS(ir.OpBand, 0),
		absorbingRHS(ir.OpBor, ^uint64(0)),

		selfIdentity(ir.OpIsub, func(f *ir.Func, v, x *ir.Value) *ir.Value { return f.ConstInt(v.Type, 0) }),
		selfIdentity(ir.OpBxor, func(f *ir.Func, v, x *ir.Value) *ir.Value { return f.ConstInt(v.Type, 0) }),
		selfIdentity(ir.OpBand, func(f *ir.Func, v, x *ir.Value) *ir.Value { return x }),
		selfIdentity(ir.OpBor, func(f *ir.Func, v, x *ir.Value) *ir.Value { return x }),

		doubleBnot,

		associativeCombine(ir.OpIadd, kernel.Add),
		associativeCombine(ir.OpImul, kernel.Mul),
		associativeCombine(ir.OpBor, kernel.Or),
		associativeCombine(ir.OpBand, kernel.And),
		associativeCombine(ir.OpBxor, kernel.Xor),
		associativeCrossCombine(ir.OpIadd, kernel.Add),
		associativeCrossCombine(ir.OpImul, kernel.Mul),
		associativeCrossCombine(ir.OpBor, kernel.Or),
		associativeCrossCombine(ir.OpBand, kernel.And),
		associativeCrossCombine(ir.OpBxor, kernel.Xor),

		lawSubThenAdd,
		lawAddThenSub,
		lawNegThenAdd,
		lawNegOfAdd,
		lawNegOfSub,

		shiftByZero(ir.OpIshl),
		shiftByZero(ir.OpUshr),
		shiftByZero(ir.OpSshr),
		shiftReassociate(ir.OpIshl),
		shiftReassociate(ir.OpUshr),
		shiftReassociate(ir.OpSshr),

		bswapFold,
		foldExtend(ir.OpUextend, kernel.Uextend),
		foldExtend(ir.OpSextend, kernel.Sextend),
		ireduceFold,

		icmpFold,
		icmpSameOperand,
		icmpAgainstTypeRange,
		equalityReassocAddAdd,
		equalityReassocAdd,
		equalityReassocSub,
	}
	return rs
}

package rewrite

import "github.com/oisee/ssa-rewrite/pkg/ir"

// trapNeverFires folds trapz/trapnz away entirely (DeleteInstruction)
// when the guarded condition is a literal that provably never trips
// the trap: trapz never fires on a nonzero constant, trapnz never
// fires on a zero constant. Skeleton instructions are deleted, never
// merely aliased, since they carry no replacement value.
func trapNeverFires(op ir.Opcode, neverFires func(bits uint64) bool) Rule {
	return Rule{
		Name:      op.String() + "/never-fires",
		Namespace: SimplifySkeleton,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			c := arg(f, v, 0)
			bits, ok := c.ConstBits()
			if !ok || !neverFires(bits) {
				return noMatch()
			}
			f.DeleteInstruction(v)
			return v, true
		},
	}
}

// uaddOverflows reports whether a+b overflows an unsigned integer of
// the given width.
func uaddOverflows(width int, a, b uint64) bool {
	if width >= 64 {
		sum := a + b
		return sum < a
	}
	mask := (uint64(1) << uint(width)) - 1
	return a+b > mask
}

// uaddOverflowTrapFold replaces `uadd_overflow_trap a, b` with its
// plain wrapped sum when both operands are literal constants that
// provably do not overflow — the trap can never fire, so the skeleton
// instruction folds down to a pure iadd result, re-fired by the
// driver against the pure pipeline once installed.
var uaddOverflowTrapFold = Rule{
	Name:      "uadd_overflow_trap/fold-const",
	Namespace: SimplifySkeleton,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpUaddOverflowTrap) {
			return noMatch()
		}
		a, b := binArgs(f, v)
		ab, ok1 := a.ConstBits()
		bb, ok2 := b.ConstBits()
		if !ok1 || !ok2 || uaddOverflows(v.Type.Width, ab, bb) {
			return noMatch()
		}
		return replace(f, v, f.ConstInt(v.Type, ir.Mask64(v.Type.Width, ab+bb)))
	},
}

func skeletonCorpus() []Rule {
	return []Rule{
		trapNeverFires(ir.OpTrapz, func(bits uint64) bool { return bits != 0 }),
		trapNeverFires(ir.OpTrapnz, func(bits uint64) bool { return bits == 0 }),
		uaddOverflowTrapFold,
	}
}

// StandardCorpus returns the complete rule corpus in declaration order:
// skeleton rules first, then the pure integer, float and vector rules.
// The driver only tries the rules of one namespace at a time, so the
// order between the two groups does not change which rule fires; a
// skeleton value that folds to a pure one is re-fired against the pure
// rules by Driver.visit.
func StandardCorpus() []Rule {
	var rs []Rule
	rs = append(rs, skeletonCorpus()...)
	rs = append(rs, intCorpus()...)
	rs = append(rs, floatCorpus()...)
	rs = append(rs, vecCorpus()...)
	return rs
}

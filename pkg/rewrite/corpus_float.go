package rewrite

import (
	"github.com/oisee/ssa-rewrite/pkg/ir"
	"github.com/oisee/ssa-rewrite/pkg/kernel"
)

func foldFconstBinary(op ir.Opcode, fn func(width int, a, b uint64) (uint64, bool)) Rule {
	return Rule{
		Name:      op.String() + "/fold-const",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) || v.Type.Width == 128 {
				return noMatch()
			}
			a, b := binArgs(f, v)
			ab, _, ok1 := a.ConstFloatBits()
			bb, _, ok2 := b.ConstFloatBits()
			if !ok1 || !ok2 {
				return noMatch()
			}
			result, ok := fn(v.Type.Width, ab, bb)
			if !ok {
				// NaN operand or NaN result: binary arithmetic folds
				// never fire across a NaN, unlike fmin/fmax.
				return noMatch()
			}
			return replace(f, v, f.ConstFloat(v.Type, result, 0))
		},
	}
}

func foldFconstUnary(op ir.Opcode, fn func(width int, a uint64) (uint64, bool)) Rule {
	return Rule{
		Name:      op.String() + "/fold-const",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) || v.Type.Width == 128 {
				return noMatch()
			}
			a := arg(f, v, 0)
			ab, _, ok := a.ConstFloatBits()
			if !ok {
				return noMatch()
			}
			result, ok := fn(v.Type.Width, ab)
			if !ok {
				return noMatch()
			}
			return replace(f, v, f.ConstFloat(v.Type, result, 0))
		},
	}
}

// fminFmaxFold handles fmin/fmax separately from the NaN-guarded binary
// folds: these always succeed, propagating NaN per IEEE-754-2019
// minimum/maximum rather than forbidding it.
func fminFmaxFold(op ir.Opcode, fn func(width int, a, b uint64) uint64) Rule {
	return Rule{
		Name:      op.String() + "/fold-const",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) || v.Type.Width == 128 {
				return noMatch()
			}
			a, b := binArgs(f, v)
			ab, _, ok1 := a.ConstFloatBits()
			bb, _, ok2 := b.ConstFloatBits()
			if !ok1 || !ok2 {
				return noMatch()
			}
			return replace(f, v, f.ConstFloat(v.Type, fn(v.Type.Width, ab, bb), 0))
		},
	}
}

// signBitFold handles fneg/fabs, which always succeed (pure bit
// manipulation, no NaN guard applies).
func signBitFold(op ir.Opcode, fn func(width int, a uint64) uint64) Rule {
	return Rule{
		Name:      op.String() + "/fold-const",
		Namespace: Simplify,
		Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
			if !isOp(v, op) {
				return noMatch()
			}
			a := arg(f, v, 0)
			if v.Type.Width == 128 {
				lo, hi, ok := a.ConstFloatBits()
				if !ok {
					return noMatch()
				}
				fv := kernel.Float128{Lo: lo, Hi: hi}
				var r kernel.Float128
				switch op {
				case ir.OpFneg:
					r = kernel.FNeg128(fv)
				case ir.OpFabs:
					r = kernel.FAbs128(fv)
				default:
					return noMatch()
				}
				return replace(f, v, f.ConstFloat(v.Type, r.Lo, r.Hi))
			}
			ab, _, ok := a.ConstFloatBits()
			if !ok {
				return noMatch()
			}
			return replace(f, v, f.ConstFloat(v.Type, fn(v.Type.Width, ab), 0))
		},
	}
}

var fcopysignFold = Rule{
	Name:      "fcopysign/fold-const",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpFcopysign) {
			return noMatch()
		}
		n, m := binArgs(f, v)
		if v.Type.Width == 128 {
			nLo, nHi, ok1 := n.ConstFloatBits()
			mLo, mHi, ok2 := m.ConstFloatBits()
			if !ok1 || !ok2 {
				return noMatch()
			}
			r := kernel.FCopysign128(kernel.Float128{Lo: nLo, Hi: nHi}, kernel.Float128{Lo: mLo, Hi: mHi})
			return replace(f, v, f.ConstFloat(v.Type, r.Lo, r.Hi))
		}
		nb, ok1 := firstFloatBits(n)
		mb, ok2 := firstFloatBits(m)
		if !ok1 || !ok2 {
			return noMatch()
		}
		return replace(f, v, f.ConstFloat(v.Type, kernel.FCopysign(v.Type.Width, nb, mb), 0))
	},
}

func firstFloatBits(v *ir.Value) (uint64, bool) {
	lo, _, ok := v.ConstFloatBits()
	return lo, ok
}

var fminFmax128Fold = Rule{
	Name:      "fmin_fmax/fold-const-f128",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpFmin) && !isOp(v, ir.OpFmax) {
			return noMatch()
		}
		if v.Type.Width != 128 {
			return noMatch()
		}
		a, b := binArgs(f, v)
		aLo, aHi, ok1 := a.ConstFloatBits()
		bLo, bHi, ok2 := b.ConstFloatBits()
		if !ok1 || !ok2 {
			return noMatch()
		}
		av := kernel.Float128{Lo: aLo, Hi: aHi}
		bv := kernel.Float128{Lo: bLo, Hi: bHi}
		var r kernel.Float128
		if isOp(v, ir.OpFmin) {
			r = kernel.FMin128(av, bv)
		} else {
			r = kernel.FMax128(av, bv)
		}
		return replace(f, v, f.ConstFloat(v.Type, r.Lo, r.Hi))
	},
}

// selectIdenticalArms folds `select c, x, x` to x regardless of c.
var selectIdenticalArms = Rule{
	Name:      "select/identical-arms",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpSelect) {
			return noMatch()
		}
		t := arg(f, v, 1)
		e := arg(f, v, 2)
		if t != e {
			return noMatch()
		}
		return replace(f, v, t)
	},
}

// selectConstCond folds `select c, x, y` to x or y when c is a literal.
var selectConstCond = Rule{
	Name:      "select/const-cond",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpSelect) {
			return noMatch()
		}
		c := arg(f, v, 0)
		bits, ok := c.ConstBits()
		if !ok {
			return noMatch()
		}
		if bits != 0 {
			return replace(f, v, arg(f, v, 1))
		}
		return replace(f, v, arg(f, v, 2))
	},
}

func floatCorpus() []Rule {
	return []Rule{
		foldFconstBinary(ir.OpFadd, kernel.FAdd),
		foldFconstBinary(ir.OpFsub, kernel.FSub),
		foldFconstBinary(ir.OpFmul, kernel.FMul),
		foldFconstBinary(ir.OpFdiv, kernel.FDiv),

		foldFconstUnary(ir.OpFsqrt, kernel.FSqrt),
		foldFconstUnary(ir.OpFceil, kernel.FCeil),
		foldFconstUnary(ir.OpFfloor, kernel.FFloor),
		foldFconstUnary(ir.OpFtrunc, kernel.FTrunc),
		foldFconstUnary(ir.OpFnearest, kernel.FNearest),

		fminFmaxFold(ir.OpFmin, kernel.FMin),
		fminFmaxFold(ir.OpFmax, kernel.FMax),
		fminFmax128Fold,

		signBitFold(ir.OpFneg, kernel.FNeg),
		signBitFold(ir.OpFabs, kernel.FAbs),
		fcopysignFold,

		selectIdenticalArms,
		selectConstCond,
	}
}

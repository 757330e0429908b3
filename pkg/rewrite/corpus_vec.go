package rewrite

import "github.com/oisee/ssa-rewrite/pkg/ir"

// splatOfConst folds `splat laneTy, k` (k a literal of the lane type)
// into a single vconst built by the layered
// splat8->splat16->splat32->splat64 bit replication.
var splatOfConst = Rule{
	Name:      "splat/fold-const",
	Namespace: Simplify,
	Try: func(f *ir.Func, v *ir.Value) (*ir.Value, bool) {
		if !isOp(v, ir.OpSplat) {
			return noMatch()
		}
		lane := arg(f, v, 0)
		if lane.Type.IsFloat() {
			lo, _, ok := lane.ConstFloatBits()
			if !ok {
				return noMatch()
			}
			pattern := ir.SplatFromWidth(lane.Type.Width, lo)
			return replace(f, v, f.ConstVec(v.Type, pattern))
		}
		bits, ok := lane.ConstBits()
		if !ok {
			return noMatch()
		}
		pattern := ir.SplatFromWidth(lane.Type.Width, bits)
		return replace(f, v, f.ConstVec(v.Type, pattern))
	},
}

func vecCorpus() []Rule {
	return []Rule{splatOfConst}
}

package rewrite

import "github.com/oisee/ssa-rewrite/pkg/ir"

// arg and binArgs fetch an instruction's canonicalized operands — the
// rule corpus always matches against the operands' *current* canonical
// values, never a stale pointer, so a rule that fires after an earlier
// rewrite installed an equivalence on an operand still sees the right
// thing.
func arg(f *ir.Func, v *ir.Value, i int) *ir.Value {
	return f.Canonical(v.Instr.Args[i])
}

func binArgs(f *ir.Func, v *ir.Value) (*ir.Value, *ir.Value) {
	return arg(f, v, 0), arg(f, v, 1)
}

// replace installs v ≡ with, subsuming v, and returns (with, true) — the
// standard shape a pure Rule.Try returns on a successful fold.
func replace(f *ir.Func, v, with *ir.Value) (*ir.Value, bool) {
	f.SetEquiv(v, with, true)
	return with, true
}

func noMatch() (*ir.Value, bool) { return nil, false }

// isOp reports whether v is defined by op, for guard-style checks that
// don't need the match package's full pattern tree.
func isOp(v *ir.Value, op ir.Opcode) bool {
	return v.Instr != nil && v.Instr.Op == op
}

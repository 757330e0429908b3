// Package match implements a small pattern combinator library: typed
// wildcards, constant-binding patterns, re-binding aliases that
// enforce structural equality, and if-let guards, matched top-down
// against one IR value's operand tree.
package match

import "github.com/oisee/ssa-rewrite/pkg/ir"

// Bindings accumulates the names a pattern has bound while matching one
// rule against one value tree: sub-values (for re-binding aliases) and
// raw constant bits (for guards and replacement construction).
type Bindings struct {
	values map[string]*ir.Value
	bits   map[string]uint64
}

// NewBindings returns an empty binding set.
func NewBindings() *Bindings {
	return &Bindings{values: make(map[string]*ir.Value), bits: make(map[string]uint64)}
}

// Value returns the sub-value bound to name, or nil if unbound.
func (b *Bindings) Value(name string) *ir.Value { return b.values[name] }

// Bits returns the constant bits bound to name, or (0, false) if unbound.
func (b *Bindings) Bits(name string) (uint64, bool) {
	v, ok := b.bits[name]
	return v, ok
}

func (b *Bindings) bindValue(name string, v *ir.Value) { b.values[name] = v }
func (b *Bindings) bindBits(name string, bits uint64)  { b.bits[name] = bits }

// Pattern matches a single node of an IR value tree, optionally binding
// names into the supplied Bindings as it goes.
type Pattern interface {
	Match(v *ir.Value, b *Bindings) bool
}

// patternFunc adapts a plain function to the Pattern interface.
type patternFunc func(v *ir.Value, b *Bindings) bool

func (f patternFunc) Match(v *ir.Value, b *Bindings) bool { return f(v, b) }

// Any matches any value without binding it.
func Any() Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool { return true })
}

// Wild matches any value and binds it under name. A later Ref(name) in
// the same rule then requires structural equality (the exact same
// Value) with whatever Wild bound — this is how the matcher expresses
// "x" appearing twice in a pattern, e.g. `x - x`.
func Wild(name string) Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool {
		b.bindValue(name, v)
		return true
	})
}

// Ref re-binds a name already bound earlier in the same match,
// requiring the node being matched to be the identical Value —
// structural equality, not merely equal bits.
func Ref(name string) Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool {
		prior := b.Value(name)
		return prior != nil && prior == v
	})
}

// IconstPat matches an integer constant of exactly the given type and
// binds its raw masked bits under bindName — the matcher exposes the
// stored-masked raw u64 to the RHS unchanged.
func IconstPat(ty ir.Type, bindName string) Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool {
		if v.Type != ty {
			return false
		}
		bits, ok := v.ConstBits()
		if !ok {
			return false
		}
		if bindName != "" {
			b.bindBits(bindName, bits)
		}
		return true
	})
}

// AnyIconst matches an integer constant of any width and binds its raw
// bits under bindName, used by rules that canonicalize across widths
// (e.g. splat-of-const).
func AnyIconst(bindName string) Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool {
		bits, ok := v.ConstBits()
		if !ok {
			return false
		}
		if bindName != "" {
			b.bindBits(bindName, bits)
		}
		return true
	})
}

// NotConst matches any value that is not itself a literal constant —
// used by commutativity canonicalization to avoid swapping an already-
// canonical (const, non-const) pair back and forth.
func NotConst() Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool { return !v.IsConst() })
}

// Op matches a value defined by the given opcode with exactly the
// given sub-patterns against its operands, in order.
func Op(op ir.Opcode, args ...Pattern) Pattern {
	return patternFunc(func(v *ir.Value, b *Bindings) bool {
		if v.Instr == nil || v.Instr.Op != op {
			return false
		}
		if len(v.Instr.Args) != len(args) {
			return false
		}
		for i, argPat := range args {
			if !argPat.Match(v.Instr.Args[i], b) {
				return false
			}
		}
		return true
	})
}

// Guard wraps an if-let predicate: the rule fails silently (not an
// error) whenever pred returns false. A Guard takes the Bindings left
// by a successful structural match; rewrite.Driver does not call
// Guards itself, since the shipped corpus does not use this package.
type Guard func(b *Bindings) bool

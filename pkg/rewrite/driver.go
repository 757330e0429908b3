// Package rewrite drives the fixed-point application of the rule
// corpus over an ir.Func: the Fresh/Rewriting/Canonical/Subsumed/Deleted
// state machine, the per-value iteration bound, and the two rewrite
// namespaces (simplify, simplify_skeleton).
package rewrite

import (
	"fmt"

	"github.com/oisee/ssa-rewrite/pkg/ir"
	"github.com/oisee/ssa-rewrite/pkg/trace"
)

// MaxIterationsPerValue bounds how many times the pure pipeline may
// re-fire against a single value before the driver gives up and raises
// a FatalError — a defensive backstop against a non-terminating rule,
// never expected to trigger against the shipped corpus.
const MaxIterationsPerValue = 64

// FatalError reports that the rewrite driver could not reach a fixed
// point for a value within MaxIterationsPerValue iterations.
type FatalError struct {
	Value ir.ValueID
	Op    ir.Opcode
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("rewrite: value v%d (%s) did not reach a fixed point within %d iterations", e.Value, e.Op, MaxIterationsPerValue)
}

// Rule is one entry of the rule corpus: Namespace selects which pass it
// participates in, Try attempts to match and rewrite v, returning the
// replacement value and true on success, or (nil, false) if the rule's
// pattern or guard did not match. Rules are tried in slice order and
// the driver commits the first one that fires: top-down, deterministic,
// single-rule-per-value-per-visit.
type Rule struct {
	Name      string
	Namespace Namespace
	Try       func(f *ir.Func, v *ir.Value) (*ir.Value, bool)
}

// Namespace distinguishes the pure simplify pipeline from the
// side-effecting simplify_skeleton pipeline.
type Namespace uint8

const (
	Simplify Namespace = iota
	SimplifySkeleton
)

// Driver owns the rule corpus and applies it to a Func.
type Driver struct {
	Rules []Rule

	// Trace, if non-nil, receives one Entry per rule firing.
	Trace *trace.Log
}

// NewDriver builds a Driver from the standard rule corpus.
func NewDriver() *Driver {
	return &Driver{Rules: StandardCorpus()}
}

// Run drives every value in f to a fixed point: the skeleton pipeline
// runs first for values with side effects, and a skeleton→pure
// transition (e.g. uadd_overflow_trap folding to a constant) re-fires
// the pure pipeline against the value's replacement. A skeleton value
// that is deleted (e.g. a trap that can never fire) has no replacement
// and ends its visit there.
// Run panics with *FatalError if a value fails to converge — the
// caller (cmd/ssaopt) recovers this at the pass boundary and logs it;
// Run itself never returns a guard failure as an error, since guard
// failure just means "this rule did not fire", not "something broke".
func (d *Driver) Run(f *ir.Func) {
	for i := 0; i < len(f.Values); i++ {
		d.visit(f, f.Values[i])
	}
}

func (d *Driver) visit(f *ir.Func, v *ir.Value) {
	if v.State != ir.StateFresh {
		return
	}
	v.State = ir.StateRewriting

	cur := v
	for iter := 0; ; iter++ {
		if iter >= MaxIterationsPerValue {
			panic(&FatalError{Value: v.ID, Op: v.Instr.Op})
		}

		namespace := Simplify
		if cur.Instr != nil && cur.Instr.Effect == ir.Skeleton {
			namespace = SimplifySkeleton
		}

		beforeID, beforeOp := cur.ID, cur.Instr.Op
		repl, ruleName, fired := d.tryNamespace(f, cur, namespace)
		if fired && d.Trace != nil {
			nsName := "simplify"
			if namespace == SimplifySkeleton {
				nsName = "simplify_skeleton"
			}
			d.Trace.Record(trace.Entry{
				Namespace:   nsName,
				Rule:        ruleName,
				Value:       beforeID,
				Op:          beforeOp,
				Replacement: repl.ID,
				Deleted:     repl.State == ir.StateDeleted,
			})
		}
		if !fired {
			if namespace == SimplifySkeleton && cur.State != ir.StateCanonical {
				// The skeleton pipeline reached a fixed point with no
				// pure replacement discovered; it is canonical as-is.
				cur.State = ir.StateCanonical
			}
			break
		}

		if repl.State == ir.StateDeleted {
			cur = repl
			break
		}

		wasSkeleton := namespace == SimplifySkeleton
		canon := f.Canonical(repl)
		if canon != cur {
			cur = canon
		}
		if wasSkeleton && cur.Instr != nil && cur.Instr.Effect == ir.Pure {
			// A skeleton instruction folded down to a pure one (e.g. a
			// non-overflowing uadd_overflow_trap replaced by its
			// constant sum): re-fire the pure pipeline against it
			// instead of assuming it is already canonical.
			continue
		}
		if f.Canonical(cur) == cur && cur.State != ir.StateSubsumed {
			// No further equivalence was installed for cur itself;
			// loop again in case the same value now matches a
			// different rule (e.g. after an operand was replaced).
			continue
		}
		break
	}
	if cur.State == ir.StateRewriting {
		cur.State = ir.StateCanonical
	}
}

func (d *Driver) tryNamespace(f *ir.Func, v *ir.Value, ns Namespace) (repl *ir.Value, ruleName string, fired bool) {
	for _, r := range d.Rules {
		if r.Namespace != ns {
			continue
		}
		if repl, ok := r.Try(f, v); ok {
			return repl, r.Name, true
		}
	}
	return nil, "", false
}

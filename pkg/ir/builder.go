package ir

import "fmt"

// Builder is the narrow interface the rewrite layer uses to construct
// and mutate IR: create an instruction, read back its shape, install
// an equivalence, replace an operand, delete an instruction, and mint
// constants. Surrounding machinery (dominator analysis, code
// emission, back-end lowering) is reached only through this
// interface, never directly.
type Builder interface {
	// NewValue creates a fresh Value defining the given instruction and
	// returns it. The instruction's Effect is set from op.DefaultEffect()
	// unless the caller already populated instr.Effect.
	NewValue(instr Instruction) *Value

	// SetEquiv installs old ≡ new in the function's equivalence store.
	// If subsume is true, old is additionally marked Subsumed so no
	// further simplify rule observes it.
	SetEquiv(old, new *Value, subsume bool)

	// Canonical resolves v through the equivalence store, returning the
	// value that should be used in its place (itself, if v has no
	// installed equivalence).
	Canonical(v *Value) *Value

	// ReplaceOperand overwrites instr.Args[i] with repl. Used by
	// skeleton rewrites that rewrite an instruction in place.
	ReplaceOperand(instr *Instruction, i int, repl *Value)

	// DeleteInstruction marks v's defining instruction as removed
	// (State transitions to StateDeleted). Only legal for skeleton
	// instructions being folded away.
	DeleteInstruction(v *Value)

	// ConstInt mints (or returns an existing) integer constant value of
	// the given type, masked to its width.
	ConstInt(ty Type, bits uint64) *Value

	// ConstFloat mints a float constant value of the given type from a
	// raw IEEE bit pattern. hi is only meaningful for 128-bit floats,
	// where it holds the upper 64 bits of the pattern.
	ConstFloat(ty Type, lo, hi uint64) *Value

	// ConstVec mints a vector constant value from a 128-bit pattern.
	ConstVec(ty Type, pattern Constant) *Value
}

// Func is a minimal in-memory function: an ordered list of every Value
// ever created plus the equivalence store scoped to this pass run.
// Dominance, basic blocks and control flow are out of scope for this
// package — Func exists only to give the rewrite driver and the CLI
// test driver something to iterate and print.
type Func struct {
	Name   string
	Values []*Value
	Equiv  *EquivStore
	nextID ValueID

	byID       map[ValueID]*Value
	constCache map[constKey]*Value
}

type constKey struct {
	kind  Kind
	width int
	lanes int
	bits  uint64
	hi    uint64
}

// NewFunc creates an empty function builder.
func NewFunc(name string) *Func {
	return &Func{
		Name:       name,
		Equiv:      NewEquivStore(0),
		byID:       make(map[ValueID]*Value),
		constCache: make(map[constKey]*Value),
	}
}

var _ Builder = (*Func)(nil)

func (f *Func) NewValue(instr Instruction) *Value {
	if instr.Effect == 0 && instr.Op.DefaultEffect() == Skeleton {
		instr.Effect = Skeleton
	}
	id := f.nextID
	f.nextID++
	v := &Value{ID: id, Type: instr.Type, Instr: &instr, State: StateFresh}
	f.Values = append(f.Values, v)
	f.byID[id] = v
	f.Equiv.Grow(id)
	return v
}

func (f *Func) SetEquiv(old, new *Value, subsume bool) {
	f.Equiv.Union(old.ID, new.ID)
	if subsume {
		old.State = StateSubsumed
	} else if old.State == StateRewriting {
		old.State = StateCanonical
	}
}

func (f *Func) Canonical(v *Value) *Value {
	root := f.Equiv.Find(v.ID)
	if root == v.ID {
		return v
	}
	if c, ok := f.byID[root]; ok {
		return c
	}
	return v
}

func (f *Func) ReplaceOperand(instr *Instruction, i int, repl *Value) {
	instr.Args[i] = repl
}

func (f *Func) DeleteInstruction(v *Value) {
	if v.Instr.Effect != Skeleton {
		panic(fmt.Sprintf("ir: DeleteInstruction on pure value v%d (%s) — pure values are orphaned via equivalence, never deleted in place", v.ID, v.Instr.Op))
	}
	v.State = StateDeleted
}

func (f *Func) ConstInt(ty Type, bits uint64) *Value {
	masked := Mask64(ty.Width, bits)
	key := constKey{kind: KindInt, width: ty.Width, bits: masked}
	if v, ok := f.constCache[key]; ok {
		return v
	}
	v := f.NewValue(Instruction{
		Op:   OpIconst,
		Type: ty,
		Imm:  NewImmediate(ty.Width, masked),
	})
	f.constCache[key] = v
	return v
}

func (f *Func) ConstFloat(ty Type, lo, hi uint64) *Value {
	key := constKey{kind: KindFloat, width: ty.Width, bits: lo, hi: hi}
	if v, ok := f.constCache[key]; ok {
		return v
	}
	v := f.NewValue(Instruction{
		Op:   OpFconst,
		Type: ty,
		Fimm: FloatImm{Width: ty.Width, Bits: lo, Hi: hi},
	})
	f.constCache[key] = v
	return v
}

func (f *Func) ConstVec(ty Type, pattern Constant) *Value {
	var bits, hi uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(pattern.Bits[i]) << (8 * uint(i))
		hi |= uint64(pattern.Bits[i+8]) << (8 * uint(i))
	}
	key := constKey{kind: KindVec, width: ty.Width, lanes: ty.Lanes, bits: bits, hi: hi}
	if v, ok := f.constCache[key]; ok {
		return v
	}
	v := f.NewValue(Instruction{
		Op:   OpVconst,
		Type: ty,
		Vimm: pattern,
	})
	f.constCache[key] = v
	return v
}

// NewInstr is a convenience constructor used throughout the rule
// corpus and tests: creates a non-constant value with the given
// opcode, type and operands.
func (f *Func) NewInstr(op Opcode, ty Type, args ...*Value) *Value {
	return f.NewValue(Instruction{Op: op, Type: ty, Args: args})
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/oisee/ssa-rewrite/pkg/ir"
)

// ParseProgram reads the small line-oriented textual IR format used by
// this CLI for smoke-testing the rewrite pass:
//
//	%0 = iconst.i32 3
//	%1 = iconst.i32 4
//	%2 = iadd.i32 %0 %1
//	%3 = icmp.i32 ult %0 %1
//
// Each line defines exactly one value. %N references must name an
// already-defined value. A small hand-rolled tokenizer is enough here:
// the format only needs to exercise the rewrite pass in tests and from
// the command line, not serve as a general assembler.
func ParseProgram(r io.Reader) (*ir.Func, error) {
	f := ir.NewFunc("main")
	byName := make(map[string]*ir.Value)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, v, err := parseLine(f, byName, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		byName[name] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseLine(f *ir.Func, byName map[string]*ir.Value, line string) (string, *ir.Value, error) {
	eq := strings.SplitN(line, "=", 2)
	if len(eq) != 2 {
		return "", nil, fmt.Errorf("expected '%%N = ...', got %q", line)
	}
	name := strings.TrimSpace(eq[0])
	rhs := strings.Fields(eq[1])
	if len(rhs) == 0 {
		return "", nil, fmt.Errorf("empty right-hand side")
	}

	opAndType := strings.SplitN(rhs[0], ".", 2)
	if len(opAndType) != 2 {
		return "", nil, fmt.Errorf("expected 'op.type', got %q", rhs[0])
	}
	opName, tyName := opAndType[0], opAndType[1]
	ty, err := parseType(tyName)
	if err != nil {
		return "", nil, err
	}
	rest := rhs[1:]

	resolve := func(tok string) (*ir.Value, error) {
		v, ok := byName[tok]
		if !ok {
			return nil, fmt.Errorf("undefined value %q", tok)
		}
		return v, nil
	}

	switch opName {
	case "iconst":
		bits, err := strconv.ParseUint(strings.TrimPrefix(rest[0], "0x"), hexOrDecBase(rest[0]), 64)
		if err != nil {
			return "", nil, fmt.Errorf("bad integer literal %q: %w", rest[0], err)
		}
		return name, f.ConstInt(ty, bits), nil

	case "fconst":
		bits, err := parseFloatLiteral(ty.Width, rest[0])
		if err != nil {
			return "", nil, err
		}
		return name, f.ConstFloat(ty, bits, 0), nil

	case "icmp":
		cc, err := parseCondCode(rest[0])
		if err != nil {
			return "", nil, err
		}
		a, err := resolve(rest[1])
		if err != nil {
			return "", nil, err
		}
		b, err := resolve(rest[2])
		if err != nil {
			return "", nil, err
		}
		return name, f.NewValue(ir.Instruction{Op: ir.OpIcmp, Type: ty, Args: []*ir.Value{a, b}, Cond: cc}), nil

	default:
		op, ok := opByName[opName]
		if !ok {
			return "", nil, fmt.Errorf("unknown opcode %q", opName)
		}
		args := make([]*ir.Value, len(rest))
		for i, tok := range rest {
			v, err := resolve(tok)
			if err != nil {
				return "", nil, err
			}
			args[i] = v
		}
		return name, f.NewInstr(op, ty, args...), nil
	}
}

var opByName = map[string]ir.Opcode{
	"iadd": ir.OpIadd, "isub": ir.OpIsub, "imul": ir.OpImul,
	"udiv": ir.OpUdiv, "sdiv": ir.OpSdiv,
	"bor": ir.OpBor, "band": ir.OpBand, "bxor": ir.OpBxor, "bnot": ir.OpBnot,
	"ishl": ir.OpIshl, "ushr": ir.OpUshr, "sshr": ir.OpSshr,
	"bswap": ir.OpBswap, "select": ir.OpSelect, "splat": ir.OpSplat,
	"fadd": ir.OpFadd, "fsub": ir.OpFsub, "fmul": ir.OpFmul, "fdiv": ir.OpFdiv,
	"fsqrt": ir.OpFsqrt, "fceil": ir.OpFceil, "ffloor": ir.OpFfloor,
	"ftrunc": ir.OpFtrunc, "fnearest": ir.OpFnearest,
	"fmin": ir.OpFmin, "fmax": ir.OpFmax,
	"fneg": ir.OpFneg, "fabs": ir.OpFabs, "fcopysign": ir.OpFcopysign,
}

func parseType(s string) (ir.Type, error) {
	if strings.HasPrefix(s, "i") {
		w, err := strconv.Atoi(s[1:])
		if err != nil {
			return ir.Type{}, fmt.Errorf("bad integer type %q: %w", s, err)
		}
		return ir.Int(w), nil
	}
	if strings.HasPrefix(s, "f") {
		w, err := strconv.Atoi(s[1:])
		if err != nil {
			return ir.Type{}, fmt.Errorf("bad float type %q: %w", s, err)
		}
		return ir.Float(w), nil
	}
	return ir.Type{}, fmt.Errorf("unrecognized type %q", s)
}

func parseCondCode(s string) (ir.CondCode, error) {
	table := map[string]ir.CondCode{
		"eq": ir.CondEq, "ne": ir.CondNe,
		"slt": ir.CondSlt, "sle": ir.CondSle, "sgt": ir.CondSgt, "sge": ir.CondSge,
		"ult": ir.CondUlt, "ule": ir.CondUle, "ugt": ir.CondUgt, "uge": ir.CondUge,
	}
	cc, ok := table[s]
	if !ok {
		return 0, fmt.Errorf("unknown condition code %q", s)
	}
	return cc, nil
}

func hexOrDecBase(s string) int {
	if strings.HasPrefix(s, "0x") {
		return 16
	}
	return 10
}

// printFunc prints every value still live after a rewrite pass (Fresh
// values never existed past parsing; Canonical/Skeleton-canonical
// values are what survived), resolving each operand through the
// equivalence store so the printed program reflects the rewritten
// graph rather than the original one.
func printFunc(w io.Writer, f *ir.Func) {
	for _, v := range f.Values {
		canon := f.Canonical(v)
		if canon != v {
			continue
		}
		if v.State == ir.StateDeleted || v.State == ir.StateSubsumed {
			continue
		}
		fmt.Fprintf(w, "%%%d = %s\n", v.ID, formatInstr(f, v))
	}
}

func formatInstr(f *ir.Func, v *ir.Value) string {
	instr := v.Instr
	switch instr.Op {
	case ir.OpIconst:
		return fmt.Sprintf("iconst.%s %d", v.Type, instr.Imm.Bits)
	case ir.OpFconst:
		return fmt.Sprintf("fconst.%s 0x%x", v.Type, instr.Fimm.Bits)
	case ir.OpIcmp:
		a := f.Canonical(instr.Args[0])
		b := f.Canonical(instr.Args[1])
		return fmt.Sprintf("icmp.%s %s %%%d %%%d", v.Type, instr.Cond, a.ID, b.ID)
	default:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s.%s", instr.Op, v.Type)
		for _, a := range instr.Args {
			fmt.Fprintf(&sb, " %%%d", f.Canonical(a).ID)
		}
		return sb.String()
	}
}

func parseFloatLiteral(width int, s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad float literal %q: %w", s, err)
	}
	switch width {
	case 32:
		return uint64(math.Float32bits(float32(v))), nil
	case 64:
		return math.Float64bits(v), nil
	default:
		return 0, fmt.Errorf("decimal float literals only supported for f32/f64, got f%d", width)
	}
}

package ir

import (
	"strconv"
	"strings"

	"github.com/consensys/gnark/constraint"

	"github.com/zkforge/arithcc/field"
)

// Opcode enumerates the gate types of the .arith format.
type Opcode int

const (
	_ Opcode = iota
	OpAdd
	OpMul
	OpXor
	OpOr
	OpAssert
	OpZeroTest
	OpSplit
	OpPack
	OpConstMul
	OpConstMulNeg
	OpTableLookup
)

// String returns the source mnemonic of the opcode.
func (op Opcode) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpXor:
		return "xor"
	case OpOr:
		return "or"
	case OpAssert:
		return "assert"
	case OpZeroTest:
		return "zerop"
	case OpSplit:
		return "split"
	case OpPack:
		return "pack"
	case OpConstMul:
		return "const-mul"
	case OpConstMulNeg:
		return "const-mul-neg"
	case OpTableLookup:
		return "table"
	default:
		return "unknown"
	}
}

// Instruction is a single gate. Constant is only meaningful for the
// const-mul variants (already negated for const-mul-neg) and Table only for
// table lookups.
type Instruction struct {
	Op       Opcode
	Constant constraint.Element
	Inputs   []Wire
	Outputs  []Wire
	Table    []constraint.Element
}

func formatWires(sb *strings.Builder, wires []Wire) {
	sb.WriteByte('<')
	for i, w := range wires {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(uint64(w), 10))
	}
	sb.WriteByte('>')
}

// Format renders the instruction in the pinocchio line form, as used by the
// trace output.
func (inst *Instruction) Format(engine *field.Engine) string {
	var sb strings.Builder
	if inst.Op == OpTableLookup {
		sb.WriteString("table ")
		sb.WriteString(strconv.Itoa(len(inst.Table)))
		sb.WriteString(" <")
		for i, e := range inst.Table {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(engine.String(e))
		}
		sb.WriteString("> in ")
		formatWires(&sb, inst.Inputs)
		sb.WriteString(" out ")
		formatWires(&sb, inst.Outputs)
		return sb.String()
	}

	sb.WriteString(inst.Op.String())
	sb.WriteString(" in ")
	sb.WriteString(strconv.Itoa(len(inst.Inputs)))
	sb.WriteByte(' ')
	formatWires(&sb, inst.Inputs)
	sb.WriteString(" out ")
	sb.WriteString(strconv.Itoa(len(inst.Outputs)))
	sb.WriteByte(' ')
	formatWires(&sb, inst.Outputs)
	if inst.Op == OpConstMul || inst.Op == OpConstMulNeg {
		sb.WriteString(" constant=")
		sb.WriteString(engine.String(inst.Constant))
	}
	return sb.String()
}

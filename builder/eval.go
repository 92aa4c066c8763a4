package builder

import (
	"github.com/consensys/gnark/constraint"

	"github.com/zkforge/arithcc/ir"
	"github.com/zkforge/arithcc/parser"
)

// Evaluate assigns the given input values and replays the instruction
// sequence in file order to compute every wire's value. This pass is
// optional: key generation only needs constraint shape and skips it.
//
// Well-formed circuits reference only wires defined earlier; a genuinely
// out-of-order operand surfaces here as an EvaluationError, while constraint
// emission papers over forward references through lazy allocation.
func (b *Builder) Evaluate(assignments []parser.Assignment) error {
	for _, a := range assignments {
		b.SetWireValue(a.Wire, a.Value)
	}

	b.log.Debug().Int("nbAssignments", len(assignments)).Msg("evaluating instructions")
	for i := range b.circuit.Instructions {
		inst := &b.circuit.Instructions[i]
		if err := checkShape(inst); err != nil {
			return err
		}
		if err := b.evalInstruction(inst); err != nil {
			return err
		}
	}
	return nil
}

// operandValues gathers the assigned values of the instruction's inputs.
func (b *Builder) operandValues(inst *ir.Instruction) ([]constraint.Element, error) {
	values := make([]constraint.Element, len(inst.Inputs))
	for i, w := range inst.Inputs {
		v, ok := b.WireValue(w)
		if !ok {
			return nil, &EvaluationError{Inst: inst, Msg: "operand wire " + wireString(w) + " has no value"}
		}
		values[i] = v
	}
	return values, nil
}

func (b *Builder) evalInstruction(inst *ir.Instruction) error {
	if inst.Op == ir.OpAssert {
		// Assertion is a constraint-only opcode: all three wires are
		// computed elsewhere. When they already carry values, report a
		// violated assertion early instead of a late unsatisfied system.
		a, okA := b.WireValue(inst.Inputs[0])
		x, okB := b.WireValue(inst.Inputs[1])
		c, okC := b.WireValue(inst.Outputs[0])
		if okA && okB && okC && !b.engine.Equal(b.engine.Mul(a, x), c) {
			return &EvaluationError{Inst: inst, Msg: "assertion does not hold"}
		}
		return nil
	}

	in, err := b.operandValues(inst)
	if err != nil {
		return err
	}
	out := inst.Outputs

	switch inst.Op {
	case ir.OpAdd:
		var sum constraint.Element
		for _, v := range in {
			sum = b.engine.Add(sum, v)
		}
		b.SetWireValue(out[0], sum)

	case ir.OpMul:
		b.SetWireValue(out[0], b.engine.Mul(in[0], in[1]))

	case ir.OpXor:
		if b.engine.Equal(in[0], in[1]) {
			b.SetWireValue(out[0], constraint.Element{})
		} else {
			b.SetWireValue(out[0], b.one)
		}

	case ir.OpOr:
		if in[0].IsZero() && in[1].IsZero() {
			b.SetWireValue(out[0], constraint.Element{})
		} else {
			b.SetWireValue(out[0], b.one)
		}

	case ir.OpZeroTest:
		// aux M = 1/X with inverse(0) = 0, then the indicator Y
		m, _ := b.engine.Inverse(in[0])
		b.SetWireValue(out[0], m)
		if in[0].IsZero() {
			b.SetWireValue(out[1], constraint.Element{})
		} else {
			b.SetWireValue(out[1], b.one)
		}

	case ir.OpPack:
		var sum constraint.Element
		two := b.one
		for _, v := range in {
			sum = b.engine.Add(sum, b.engine.Mul(two, v))
			two = b.engine.Add(two, two)
		}
		b.SetWireValue(out[0], sum)

	case ir.OpSplit:
		value := in[0]
		for i, w := range out {
			if b.engine.Bit(value, i) == 1 {
				b.SetWireValue(w, b.one)
			} else {
				b.SetWireValue(w, constraint.Element{})
			}
		}

	case ir.OpConstMul, ir.OpConstMulNeg:
		b.SetWireValue(out[0], b.engine.Mul(inst.Constant, in[0]))

	case ir.OpTableLookup:
		// selectors form the index with wire i carrying weight 2^i
		idx := 0
		for i := len(in) - 1; i >= 0; i-- {
			v := in[i]
			if !b.engine.IsBoolean(v) {
				return &EvaluationError{Inst: inst, Msg: "selector wire " + wireString(inst.Inputs[i]) + " expected to be binary"}
			}
			idx <<= 1
			if b.engine.IsOne(v) {
				idx |= 1
			}
		}
		b.SetWireValue(out[0], inst.Table[idx])
	}
	return nil
}

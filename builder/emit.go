package builder

import (
	"fmt"
	"strconv"

	"github.com/consensys/gnark/constraint"

	"github.com/zkforge/arithcc/ir"
	"github.com/zkforge/arithcc/protoboard"
)

func wireString(w ir.Wire) string {
	return strconv.FormatUint(uint64(w), 10)
}

// term builds coeff * wire, allocating the wire on first reference.
func (b *Builder) term(coeff constraint.Element, w ir.Wire) protoboard.Term {
	return protoboard.Term{Coeff: coeff, VID: b.wire(w)}
}

// constTerm builds a constant contribution on the one-wire.
func constTerm(c constraint.Element) protoboard.Term {
	return protoboard.Term{Coeff: c, VID: protoboard.One}
}

// lcOne is the linear combination holding the constant 1.
func (b *Builder) lcOne() protoboard.LinearCombination {
	return protoboard.LinearCombination{constTerm(b.one)}
}

// EmitConstraints replays the instruction sequence and emits, for each gate,
// constraints that hold exactly when the gate's semantics hold. Emission is
// pure with respect to witness values: it produces the same constraint shape
// whether or not an evaluation pass ran first.
func (b *Builder) EmitConstraints() error {
	b.log.Debug().Msg("generating constraints")
	for i := range b.circuit.Instructions {
		inst := &b.circuit.Instructions[i]
		if err := checkShape(inst); err != nil {
			return err
		}
		if b.trace {
			fmt.Println(inst.Format(b.engine))
		}
		if err := b.emitInstruction(inst); err != nil {
			return err
		}
		if b.trace {
			b.traceValues(inst)
		}
	}
	return nil
}

func (b *Builder) emitInstruction(inst *ir.Instruction) error {
	in, out := inst.Inputs, inst.Outputs
	switch inst.Op {
	case ir.OpAdd:
		// 1 * (sum of inputs) = output
		sum := make(protoboard.LinearCombination, 0, len(in))
		for _, w := range in {
			sum = append(sum, b.term(b.one, w))
		}
		b.backend.AddConstraint(protoboard.R1C{
			A: b.lcOne(),
			B: sum,
			C: protoboard.LinearCombination{b.term(b.one, out[0])},
		})

	case ir.OpMul:
		b.backend.AddConstraint(protoboard.R1C{
			A: protoboard.LinearCombination{b.term(b.one, in[0])},
			B: protoboard.LinearCombination{b.term(b.one, in[1])},
			C: protoboard.LinearCombination{b.term(b.one, out[0])},
		})

	case ir.OpXor:
		// (2a) * b = a + b - c
		two := b.engine.Add(b.one, b.one)
		b.backend.AddConstraint(protoboard.R1C{
			A: protoboard.LinearCombination{b.term(two, in[0])},
			B: protoboard.LinearCombination{b.term(b.one, in[1])},
			C: protoboard.LinearCombination{
				b.term(b.one, in[0]),
				b.term(b.one, in[1]),
				b.term(b.negOne, out[0]),
			},
		})

	case ir.OpOr:
		// a * b = a + b - c
		b.backend.AddConstraint(protoboard.R1C{
			A: protoboard.LinearCombination{b.term(b.one, in[0])},
			B: protoboard.LinearCombination{b.term(b.one, in[1])},
			C: protoboard.LinearCombination{
				b.term(b.one, in[0]),
				b.term(b.one, in[1]),
				b.term(b.negOne, out[0]),
			},
		})

	case ir.OpAssert:
		b.backend.AddConstraint(protoboard.R1C{
			A: protoboard.LinearCombination{b.term(b.one, in[0])},
			B: protoboard.LinearCombination{b.term(b.one, in[1])},
			C: protoboard.LinearCombination{b.term(b.one, out[0])},
		})

	case ir.OpConstMul, ir.OpConstMulNeg:
		// constant is pre-negated for the neg variant
		b.backend.AddConstraint(protoboard.R1C{
			A: protoboard.LinearCombination{b.term(b.one, in[0])},
			B: protoboard.LinearCombination{constTerm(inst.Constant)},
			C: protoboard.LinearCombination{b.term(b.one, out[0])},
		})

	case ir.OpZeroTest:
		b.emitZeroTest(in[0], out[0], out[1])

	case ir.OpSplit:
		b.emitSplit(in[0], out)

	case ir.OpPack:
		// output * 1 = sum of 2^i * input_i; inputs are assumed boolean
		// by construction upstream, no booleanity is added here
		sum := make(protoboard.LinearCombination, 0, len(in))
		two := b.one
		for _, w := range in {
			sum = append(sum, b.term(two, w))
			two = b.engine.Add(two, two)
		}
		b.backend.AddConstraint(protoboard.R1C{
			A: protoboard.LinearCombination{b.term(b.one, out[0])},
			B: b.lcOne(),
			C: sum,
		})

	case ir.OpTableLookup:
		return b.emitTable(inst)
	}
	return nil
}

// emitZeroTest encodes Y = (X != 0), with M the inverse witness:
//
//	X * (1 - Y) = 0
//	X * M = Y
//
// When X is zero the first constraint frees Y to 0 only, whatever M holds;
// when X is nonzero the second forces M = 1/X and Y = 1.
func (b *Builder) emitZeroTest(x, m, y ir.Wire) {
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{b.term(b.one, x)},
		B: protoboard.LinearCombination{constTerm(b.one), b.term(b.negOne, y)},
		C: nil,
	})
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{b.term(b.one, x)},
		B: protoboard.LinearCombination{b.term(b.one, m)},
		C: protoboard.LinearCombination{b.term(b.one, y)},
	})
}

// emitSplit constrains each output to be a bit and the bit-weighted sum to
// reassemble the input.
func (b *Builder) emitSplit(input ir.Wire, bits []ir.Wire) {
	sum := make(protoboard.LinearCombination, 0, len(bits))
	two := b.one
	for _, w := range bits {
		bit := protoboard.LinearCombination{b.term(b.one, w)}
		b.backend.AddConstraint(protoboard.R1C{A: bit, B: bit, C: bit})
		sum = append(sum, b.term(two, w))
		two = b.engine.Add(two, two)
	}
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{b.term(b.one, input)},
		B: b.lcOne(),
		C: sum,
	})
}

func (b *Builder) traceValues(inst *ir.Instruction) {
	for _, w := range inst.Inputs {
		v, _ := b.WireValue(w)
		fmt.Printf("\tin %s = %s\n", wireString(w), b.engine.String(v))
	}
	for _, w := range inst.Outputs {
		v, _ := b.WireValue(w)
		fmt.Printf("\tout %s = %s\n", wireString(w), b.engine.String(v))
	}
	fmt.Println()
}

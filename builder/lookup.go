package builder

import (
	"github.com/consensys/gnark/constraint"

	"github.com/zkforge/arithcc/ir"
	"github.com/zkforge/arithcc/protoboard"
)

// Table lookups are emitted as interpolation gadgets over the selector
// bits. For n selectors the interpolation polynomial has degree n, so one
// bit folds into a single constraint, two bits into one constraint with
// the quadratic term on the A*B product, and three bits need one helper
// product b0*b1 to keep everything rank one. Larger tables are rejected.
func (b *Builder) emitTable(inst *ir.Instruction) error {
	switch len(inst.Table) {
	case 2:
		b.emitTable2(inst)
	case 4:
		b.emitTable4(inst)
	case 8:
		b.emitTable8(inst)
	default:
		return &StructureError{Inst: inst, Msg: "unsupported table size, want 2, 4 or 8 entries"}
	}
	return nil
}

// emitTable2 encodes r = c0 + b0*(c1 - c0):
//
//	(c0 + b0*(c1 - c0)) * 1 = r
func (b *Builder) emitTable2(inst *ir.Instruction) {
	c := inst.Table
	b0 := inst.Inputs[0]
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{
			constTerm(c[0]),
			b.term(b.engine.Sub(c[1], c[0]), b0),
		},
		B: b.lcOne(),
		C: protoboard.LinearCombination{b.term(b.one, inst.Outputs[0])},
	})
}

// emitTable4 places the one quadratic interpolation term on the product
// side:
//
//	(b1*(c3 - c2 - c1 + c0)) * b0 = r - c0 - b0*(c1 - c0) - b1*(c2 - c0)
func (b *Builder) emitTable4(inst *ir.Instruction) {
	c := inst.Table
	e := b.engine
	b0, b1 := inst.Inputs[0], inst.Inputs[1]
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{
			b.term(e.Add(e.Sub(e.Sub(c[3], c[2]), c[1]), c[0]), b1),
		},
		B: protoboard.LinearCombination{b.term(b.one, b0)},
		C: protoboard.LinearCombination{
			b.term(b.one, inst.Outputs[0]),
			constTerm(e.Neg(c[0])),
			b.term(e.Sub(c[0], c[1]), b0),
			b.term(e.Sub(c[0], c[2]), b1),
		},
	})
}

// emitTable8 introduces the helper product p = b0*b1 and folds the cubic
// term b0*b1*b2 into p*b2. Grouping the interpolation by b2 gives
//
//	b2 * (d4 + b0*d5 + b1*d6 + p*d7) = r - c0 - b0*d1 - b1*d2 - p*d3
//
// with the finite-difference coefficients
//
//	d1 = c1-c0   d2 = c2-c0   d3 = c3-c2-c1+c0   d4 = c4-c0
//	d5 = c5-c4-c1+c0   d6 = c6-c4-c2+c0   d7 = c7-c6-c5+c4-c3+c2+c1-c0
//
// The helper has no wire of its own; its witness slot is filled here
// whenever both selectors already carry values.
func (b *Builder) emitTable8(inst *ir.Instruction) {
	c := inst.Table
	e := b.engine
	b0, b1, b2 := inst.Inputs[0], inst.Inputs[1], inst.Inputs[2]

	sub := func(x, y constraint.Element) constraint.Element { return e.Sub(x, y) }
	d1 := sub(c[1], c[0])
	d2 := sub(c[2], c[0])
	d3 := e.Add(sub(sub(c[3], c[2]), c[1]), c[0])
	d4 := sub(c[4], c[0])
	d5 := e.Add(sub(sub(c[5], c[4]), c[1]), c[0])
	d6 := e.Add(sub(sub(c[6], c[4]), c[2]), c[0])
	d7 := sub(sub(c[7], c[6]), c[5])
	d7 = e.Add(d7, c[4])
	d7 = sub(d7, c[3])
	d7 = e.Add(e.Add(d7, c[2]), c[1])
	d7 = sub(d7, c[0])

	p := b.backend.AllocVariable()
	if v0, ok0 := b.WireValue(b0); ok0 {
		if v1, ok1 := b.WireValue(b1); ok1 {
			b.backend.Assign(p, e.Mul(v0, v1))
		}
	}
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{b.term(b.one, b0)},
		B: protoboard.LinearCombination{b.term(b.one, b1)},
		C: protoboard.LinearCombination{{Coeff: b.one, VID: p}},
	})
	b.backend.AddConstraint(protoboard.R1C{
		A: protoboard.LinearCombination{b.term(b.one, b2)},
		B: protoboard.LinearCombination{
			constTerm(d4),
			b.term(d5, b0),
			b.term(d6, b1),
			{Coeff: d7, VID: p},
		},
		C: protoboard.LinearCombination{
			b.term(b.one, inst.Outputs[0]),
			constTerm(e.Neg(c[0])),
			b.term(e.Neg(d1), b0),
			b.term(e.Neg(d2), b1),
			{Coeff: e.Neg(d3), VID: p},
		},
	})
}

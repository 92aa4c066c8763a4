// Package protoboard holds the rank-1 constraint system the compiler emits
// into, together with the witness vector. It is the narrow backend
// capability the builder drives: allocate a variable, read or write its
// witness slot, add an A*B = C constraint, test satisfiability. Lowering to
// a full proving stack lives in package snark.
package protoboard

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/gnark/constraint"

	"github.com/zkforge/arithcc/field"
)

// Variable is a handle to a witness slot. Variable 0 is the constant
// one-wire, allocated and assigned at construction.
type Variable int

// One is the constant one-wire present on every protoboard.
const One Variable = 0

// Term is a coefficient applied to a variable.
type Term struct {
	Coeff constraint.Element
	VID   Variable
}

// LinearCombination is a sum of terms. Constants are expressed as terms on
// the one-wire.
type LinearCombination []Term

// R1C is a single constraint A*B = C over linear combinations.
type R1C struct {
	A, B, C LinearCombination
}

// Protoboard is a growing R1CS plus its witness assignment. It is not safe
// for concurrent use; a circuit is compiled by a single caller.
type Protoboard struct {
	engine *field.Engine

	nbVariables int
	nbPublic    int

	constraints []R1C

	values   []constraint.Element
	assigned *bitset.BitSet
}

// New returns an empty protoboard with the one-wire allocated and set to 1.
func New(engine *field.Engine) *Protoboard {
	pb := &Protoboard{
		engine:   engine,
		assigned: bitset.New(64),
	}
	one := pb.AllocVariable()
	pb.Assign(one, engine.One())
	return pb
}

// AllocVariable creates a fresh, unassigned variable.
func (pb *Protoboard) AllocVariable() Variable {
	v := Variable(pb.nbVariables)
	pb.nbVariables++
	pb.values = append(pb.values, constraint.Element{})
	return v
}

// SetPublicCount declares that the first n variables allocated after the
// one-wire are the circuit's public inputs, in allocation order. This fixes
// which leading witness entries are public.
func (pb *Protoboard) SetPublicCount(n int) {
	if n >= pb.nbVariables {
		panic("public count exceeds allocated variables")
	}
	pb.nbPublic = n
}

// Assign writes the witness slot of v.
func (pb *Protoboard) Assign(v Variable, value constraint.Element) {
	if int(v) >= pb.nbVariables {
		panic(fmt.Sprintf("assign to unallocated variable %d", v))
	}
	pb.values[v] = value
	pb.assigned.Set(uint(v))
}

// Value reads the witness slot of v; ok is false if it was never assigned.
func (pb *Protoboard) Value(v Variable) (constraint.Element, bool) {
	if int(v) >= pb.nbVariables || !pb.assigned.Test(uint(v)) {
		return constraint.Element{}, false
	}
	return pb.values[v], true
}

// AddConstraint appends the constraint A*B = C.
func (pb *Protoboard) AddConstraint(c R1C) {
	pb.constraints = append(pb.constraints, c)
}

// EvalLC evaluates a linear combination under the current witness.
// Unassigned slots read as zero, matching libsnark's protoboard semantics.
func (pb *Protoboard) EvalLC(lc LinearCombination) constraint.Element {
	var sum constraint.Element
	for _, t := range lc {
		sum = pb.engine.Add(sum, pb.engine.Mul(t.Coeff, pb.values[t.VID]))
	}
	return sum
}

// IsSatisfied checks every constraint against the current witness and
// reports the first violated one.
func (pb *Protoboard) IsSatisfied() error {
	for i, c := range pb.constraints {
		a := pb.EvalLC(c.A)
		b := pb.EvalLC(c.B)
		o := pb.EvalLC(c.C)
		if !pb.engine.Equal(pb.engine.Mul(a, b), o) {
			return fmt.Errorf("constraint %d not satisfied: %s * %s != %s",
				i, pb.engine.String(a), pb.engine.String(b), pb.engine.String(o))
		}
	}
	return nil
}

// NbVariables returns the number of allocated variables, one-wire included.
func (pb *Protoboard) NbVariables() int { return pb.nbVariables }

// NbConstraints returns the number of constraints.
func (pb *Protoboard) NbConstraints() int { return len(pb.constraints) }

// PublicCount returns the declared number of public input variables,
// one-wire excluded.
func (pb *Protoboard) PublicCount() int { return pb.nbPublic }

// Constraints exposes the constraint list for lowering. The returned slice
// must not be mutated.
func (pb *Protoboard) Constraints() []R1C { return pb.constraints }

// Witness exposes the witness vector for lowering, indexed by Variable.
// Unassigned slots are zero. The returned slice must not be mutated.
func (pb *Protoboard) Witness() []constraint.Element { return pb.values }

// Package ir defines the instruction set of the pinocchio/jsnark ".arith"
// gate format. A parsed circuit is an ordered instruction sequence plus the
// wire role lists; instructions are immutable once built.
package ir

// Wire identifies a value-carrying signal in the circuit. It is only a key;
// the backing variable is owned by the constraint-system backend.
type Wire uint64

// Circuit is a parsed gate list. Instruction order is evaluation order:
// well-formed inputs only reference wires defined by earlier instructions or
// declared as inputs. The role lists preserve file order, which fixes the
// public-input ordering handed to the backend.
type Circuit struct {
	// declared wire count from the "total" directive
	NbWires uint64

	Instructions []Instruction

	Inputs     []Wire
	NizkInputs []Wire
	Outputs    []Wire
}

// NbPublicInputs returns the number of public input wires.
func (c *Circuit) NbPublicInputs() int {
	return len(c.Inputs)
}

// Package builder compiles a parsed .arith circuit into a rank-1 constraint
// system. It replays the instruction sequence twice over the same wire
// table: once to evaluate a witness from concrete input values (optional),
// and once to emit the constraints encoding each gate's semantics.
package builder

import (
	"fmt"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"

	"github.com/zkforge/arithcc/field"
	"github.com/zkforge/arithcc/ir"
	"github.com/zkforge/arithcc/protoboard"
)

// Backend is the constraint-system capability the builder drives. It is
// satisfied by *protoboard.Protoboard and owned by the caller; the builder
// mutates it in place.
type Backend interface {
	AllocVariable() protoboard.Variable
	SetPublicCount(n int)
	Assign(v protoboard.Variable, value constraint.Element)
	Value(v protoboard.Variable) (constraint.Element, bool)
	AddConstraint(c protoboard.R1C)
	IsSatisfied() error
}

// Builder ties a circuit to a backend and owns the wire table. Exactly one
// backend variable is ever allocated per wire, on first reference.
type Builder struct {
	circuit *ir.Circuit
	backend Backend
	engine  *field.Engine

	wires map[ir.Wire]protoboard.Variable

	one    constraint.Element
	negOne constraint.Element

	trace bool
	log   zerolog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithTrace enables human-readable per-gate logging of instructions and
// wire values during constraint generation.
func WithTrace() Option {
	return func(b *Builder) { b.trace = true }
}

// New creates a builder over the given circuit and backend. Role-designated
// wires are allocated eagerly: public inputs first, then nizk inputs, then
// outputs, each in file order; the public-input count is then declared to
// the backend. All other wires are allocated lazily on first reference.
func New(circuit *ir.Circuit, backend Backend, opts ...Option) *Builder {
	engine := &field.Engine{}
	b := &Builder{
		circuit: circuit,
		backend: backend,
		engine:  engine,
		wires:   make(map[ir.Wire]protoboard.Variable),
		one:     engine.One(),
		negOne:  engine.Neg(engine.One()),
		log:     logger.Logger(),
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, w := range circuit.Inputs {
		b.wire(w)
	}
	for _, w := range circuit.NizkInputs {
		b.wire(w)
	}
	for _, w := range circuit.Outputs {
		b.wire(w)
	}
	backend.SetPublicCount(len(circuit.Inputs))

	b.log.Debug().
		Int("nbInputs", len(circuit.Inputs)).
		Int("nbNizkInputs", len(circuit.NizkInputs)).
		Int("nbOutputs", len(circuit.Outputs)).
		Int("nbInstructions", len(circuit.Instructions)).
		Msg("builder initialized")
	return b
}

// Circuit returns the circuit being compiled.
func (b *Builder) Circuit() *ir.Circuit { return b.circuit }

// NbWireVariables returns the number of distinct wires referenced so far.
func (b *Builder) NbWireVariables() int { return len(b.wires) }

// wire returns the backend variable for a wire, allocating it on first
// reference.
func (b *Builder) wire(w ir.Wire) protoboard.Variable {
	if v, ok := b.wires[w]; ok {
		return v
	}
	v := b.backend.AllocVariable()
	b.wires[w] = v
	return v
}

// SetWireValue assigns a wire's witness slot, allocating the wire if it was
// never referenced.
func (b *Builder) SetWireValue(w ir.Wire, value constraint.Element) {
	b.backend.Assign(b.wire(w), value)
}

// WireValue reads a wire's witness slot; ok is false for wires that were
// never assigned.
func (b *Builder) WireValue(w ir.Wire) (constraint.Element, bool) {
	v, ok := b.wires[w]
	if !ok {
		return constraint.Element{}, false
	}
	return b.backend.Value(v)
}

// OutputValues returns the evaluated values of the circuit's output wires in
// file order. Unassigned outputs read as zero.
func (b *Builder) OutputValues() []constraint.Element {
	values := make([]constraint.Element, len(b.circuit.Outputs))
	for i, w := range b.circuit.Outputs {
		values[i], _ = b.WireValue(w)
	}
	return values
}

// StructureError reports a gate whose shape is structurally invalid: wrong
// arity for its opcode, or an unsupported lookup table size.
type StructureError struct {
	Inst *ir.Instruction
	Msg  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s gate: %s", e.Inst.Op, e.Msg)
}

// EvaluationError reports a gate that could not be evaluated, typically an
// operand wire with no assigned value.
type EvaluationError struct {
	Inst *ir.Instruction
	Msg  string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating %s gate: %s", e.Inst.Op, e.Msg)
}

// checkShape enforces the per-opcode arity expectations shared by
// evaluation and constraint emission. Table directives are additionally
// checked at parse time.
func checkShape(inst *ir.Instruction) error {
	bad := func(format string, args ...interface{}) error {
		return &StructureError{Inst: inst, Msg: fmt.Sprintf(format, args...)}
	}
	nIn, nOut := len(inst.Inputs), len(inst.Outputs)
	switch inst.Op {
	case ir.OpAdd:
		if nIn < 2 || nOut != 1 {
			return bad("want at least 2 inputs and 1 output, got %d and %d", nIn, nOut)
		}
	case ir.OpMul, ir.OpXor, ir.OpOr, ir.OpAssert:
		if nIn != 2 || nOut != 1 {
			return bad("want 2 inputs and 1 output, got %d and %d", nIn, nOut)
		}
	case ir.OpConstMul, ir.OpConstMulNeg:
		if nIn != 1 || nOut != 1 {
			return bad("want 1 input and 1 output, got %d and %d", nIn, nOut)
		}
	case ir.OpZeroTest:
		if nIn != 1 || nOut != 2 {
			return bad("want 1 input and 2 outputs, got %d and %d", nIn, nOut)
		}
	case ir.OpSplit:
		if nIn != 1 || nOut < 1 {
			return bad("want 1 input and at least 1 output, got %d and %d", nIn, nOut)
		}
	case ir.OpPack:
		if nIn < 1 || nOut != 1 {
			return bad("want at least 1 input and 1 output, got %d and %d", nIn, nOut)
		}
	case ir.OpTableLookup:
		if nOut != 1 || len(inst.Table) != 1<<uint(nIn) {
			return bad("want %d table entries and 1 output, got %d and %d", 1<<uint(nIn), len(inst.Table), nOut)
		}
	default:
		return bad("unknown opcode")
	}
	return nil
}

package ir

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkforge/arithcc/field"
)

func TestFormat(t *testing.T) {
	engine := &field.Engine{}

	add := Instruction{Op: OpAdd, Inputs: []Wire{0, 1}, Outputs: []Wire{2}}
	require.Equal(t, "add in 2 <0 1> out 1 <2>", add.Format(engine))

	cm := Instruction{
		Op:       OpConstMul,
		Constant: engine.FromInterface(7),
		Inputs:   []Wire{3},
		Outputs:  []Wire{4},
	}
	require.Equal(t, "const-mul in 1 <3> out 1 <4> constant=7", cm.Format(engine))

	table := Instruction{
		Op:      OpTableLookup,
		Inputs:  []Wire{0, 1},
		Outputs: []Wire{5},
	}
	for _, v := range []int{9, 8, 7, 6} {
		table.Table = append(table.Table, engine.FromInterface(v))
	}
	require.Equal(t, "table 4 <9 8 7 6> in <0 1> out <5>", table.Format(engine))
}

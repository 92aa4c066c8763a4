package protoboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkforge/arithcc/field"
)

func TestOneWire(t *testing.T) {
	engine := &field.Engine{}
	pb := New(engine)

	require.Equal(t, 1, pb.NbVariables())
	v, ok := pb.Value(One)
	require.True(t, ok)
	require.True(t, engine.IsOne(v))
}

func TestAllocAndAssign(t *testing.T) {
	engine := &field.Engine{}
	pb := New(engine)

	a := pb.AllocVariable()
	b := pb.AllocVariable()
	require.Equal(t, Variable(1), a)
	require.Equal(t, Variable(2), b)
	require.Equal(t, 3, pb.NbVariables())

	_, ok := pb.Value(a)
	require.False(t, ok, "fresh variable has no value")

	pb.Assign(a, engine.FromInterface(42))
	v, ok := pb.Value(a)
	require.True(t, ok)
	require.True(t, engine.Equal(engine.FromInterface(42), v))

	// zero is a real assignment, distinct from unassigned
	pb.Assign(b, engine.FromInterface(0))
	v, ok = pb.Value(b)
	require.True(t, ok)
	require.True(t, v.IsZero())
}

func TestSetPublicCount(t *testing.T) {
	engine := &field.Engine{}
	pb := New(engine)
	pb.AllocVariable()
	pb.AllocVariable()

	pb.SetPublicCount(2)
	require.Equal(t, 2, pb.PublicCount())

	require.Panics(t, func() { pb.SetPublicCount(3) })
}

func TestEvalLC(t *testing.T) {
	engine := &field.Engine{}
	pb := New(engine)

	x := pb.AllocVariable()
	y := pb.AllocVariable()
	pb.Assign(x, engine.FromInterface(3))

	// 5 + 2*x + 7*y with y unassigned: unassigned slots read as zero
	lc := LinearCombination{
		{Coeff: engine.FromInterface(5), VID: One},
		{Coeff: engine.FromInterface(2), VID: x},
		{Coeff: engine.FromInterface(7), VID: y},
	}
	require.True(t, engine.Equal(engine.FromInterface(11), pb.EvalLC(lc)))
}

func TestIsSatisfied(t *testing.T) {
	engine := &field.Engine{}
	pb := New(engine)

	a := pb.AllocVariable()
	b := pb.AllocVariable()
	c := pb.AllocVariable()
	pb.Assign(a, engine.FromInterface(3))
	pb.Assign(b, engine.FromInterface(4))
	pb.Assign(c, engine.FromInterface(12))

	pb.AddConstraint(R1C{
		A: LinearCombination{{Coeff: engine.One(), VID: a}},
		B: LinearCombination{{Coeff: engine.One(), VID: b}},
		C: LinearCombination{{Coeff: engine.One(), VID: c}},
	})
	require.Equal(t, 1, pb.NbConstraints())
	require.NoError(t, pb.IsSatisfied())

	pb.Assign(c, engine.FromInterface(13))
	require.Error(t, pb.IsSatisfied())
}

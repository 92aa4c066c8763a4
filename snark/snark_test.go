package snark

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkforge/arithcc/builder"
	"github.com/zkforge/arithcc/field"
	"github.com/zkforge/arithcc/parser"
	"github.com/zkforge/arithcc/protoboard"
)

const testCircuit = `total 8
input 0
input 1
nizkinput 2
output 5
output 7
mul in 2 <0 1> out 1 <3>
add in 2 <3 2> out 1 <4>
const-mul-02 in 1 <4> out 1 <5>
zerop in 1 <2> out 2 <6 7>
`

const testInputs = "0=3\n1=4\n2=5\n"

func compileTestCircuit(t *testing.T) (*builder.Builder, *protoboard.Protoboard) {
	t.Helper()
	circuit, err := parser.Parse(strings.NewReader(testCircuit))
	require.NoError(t, err)
	pb := protoboard.New(&field.Engine{})
	b := builder.New(circuit, pb)
	assignments, err := parser.ParseInputs(strings.NewReader(testInputs))
	require.NoError(t, err)
	require.NoError(t, b.Evaluate(assignments))
	require.NoError(t, b.EmitConstraints())
	require.NoError(t, pb.IsSatisfied())
	return b, pb
}

func TestLowerShape(t *testing.T) {
	_, pb := compileTestCircuit(t)
	ccs := Lower(pb)

	require.Equal(t, pb.NbConstraints(), ccs.GetNbConstraints())
	// one-wire plus the two declared public inputs
	require.Equal(t, 3, ccs.GetNbPublicVariables())
	require.Equal(t, pb.NbVariables()-3, ccs.GetNbSecretVariables())
	require.Zero(t, ccs.GetNbInternalVariables())
}

func TestLoweredSystemSolves(t *testing.T) {
	b, pb := compileTestCircuit(t)
	ccs := Lower(pb)

	w, err := FullWitness(pb)
	require.NoError(t, err)
	require.NoError(t, ccs.IsSolved(w))

	// tampering with an output wire must be caught by the lowered system too
	engine := &field.Engine{}
	b.SetWireValue(5, engine.FromInterface(35))
	bad, err := FullWitness(pb)
	require.NoError(t, err)
	require.Error(t, ccs.IsSolved(bad))
}

func TestGroth16RoundTrip(t *testing.T) {
	_, pb := compileTestCircuit(t)
	ccs := Lower(pb)
	w, err := FullWitness(pb)
	require.NoError(t, err)
	require.NoError(t, SelfTest(ccs, w))
}

func TestKeyAndProofFiles(t *testing.T) {
	_, pb := compileTestCircuit(t)
	ccs := Lower(pb)

	dir := t.TempDir()
	pkPath := filepath.Join(dir, "pk.raw")
	vkPath := filepath.Join(dir, "vk.raw")
	proofPath := filepath.Join(dir, "proof.raw")

	require.NoError(t, GenKeys(ccs, pkPath, vkPath))

	w, err := FullWitness(pb)
	require.NoError(t, err)
	require.NoError(t, Prove(ccs, w, pkPath, proofPath))
	require.NoError(t, Verify(vkPath, proofPath))

	require.Error(t, Verify(vkPath, pkPath), "mismatched artifact must not verify")
}

// Package snark lowers a compiled protoboard into a gnark bn254 constraint
// system and drives the Groth16 lifecycle over it. The compiler itself never
// depends on the proving backend; everything here treats the protoboard as a
// finished artifact.
package snark

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	cs "github.com/consensys/gnark/constraint/bn254"

	"github.com/zkforge/arithcc/field"
	"github.com/zkforge/arithcc/protoboard"
)

// Lower rebuilds the protoboard's variables and constraints inside a gnark
// R1CS. Variable ids are preserved: the one-wire becomes public variable 0,
// the declared public inputs follow it, and every remaining variable is
// secret. Nothing is internal, so the gnark solver only has to check the
// witness we hand it, never derive part of it.
func Lower(pb *protoboard.Protoboard) constraint.ConstraintSystem {
	ccs := cs.NewR1CS(pb.NbConstraints())

	ccs.AddPublicVariable("1")
	for i := 0; i < pb.PublicCount(); i++ {
		ccs.AddPublicVariable(fmt.Sprintf("in%d", i))
	}
	nbSecret := pb.NbVariables() - 1 - pb.PublicCount()
	for i := 0; i < nbSecret; i++ {
		ccs.AddSecretVariable(fmt.Sprintf("w%d", i))
	}

	bID := ccs.AddBlueprint(&constraint.BlueprintGenericR1C{})
	for _, c := range pb.Constraints() {
		ccs.AddR1C(constraint.R1C{
			L: lowerLC(ccs, c.A),
			R: lowerLC(ccs, c.B),
			O: lowerLC(ccs, c.C),
		}, bID)
	}
	return ccs
}

// lowerLC translates a linear combination term by term. Both sides carry
// coefficients as constraint.Element over the same field, so no value
// conversion is needed.
func lowerLC(ccs *cs.R1CS, lc protoboard.LinearCombination) constraint.LinearExpression {
	le := make(constraint.LinearExpression, 0, len(lc))
	for _, t := range lc {
		le = append(le, ccs.MakeTerm(t.Coeff, int(t.VID)))
	}
	return le
}

// FullWitness packages the protoboard's witness vector, one-wire excluded,
// as a gnark witness: public inputs first, then every secret variable.
func FullWitness(pb *protoboard.Protoboard) (witness.Witness, error) {
	engine := &field.Engine{}
	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}
	values := pb.Witness()
	nbSecret := len(values) - 1 - pb.PublicCount()
	ch := make(chan any)
	go func() {
		defer close(ch)
		for _, v := range values[1:] {
			ch <- engine.ToBigInt(v)
		}
	}()
	if err := w.Fill(pb.PublicCount(), nbSecret, ch); err != nil {
		return nil, err
	}
	return w, nil
}

// PublicWitness extracts the public part of the protoboard's witness.
func PublicWitness(pb *protoboard.Protoboard) (witness.Witness, error) {
	w, err := FullWitness(pb)
	if err != nil {
		return nil, err
	}
	return w.Public()
}

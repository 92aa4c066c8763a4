package snark

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/logger"
)

// GenKeys runs the Groth16 setup over the constraint system and writes the
// proving and verifying keys to pkPath and vkPath.
func GenKeys(ccs constraint.ConstraintSystem, pkPath, vkPath string) error {
	log := logger.Logger()
	log.Info().Int("nbConstraints", ccs.GetNbConstraints()).Msg("groth16 setup")
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("groth16 setup: %w", err)
	}
	if err := writeTo(pkPath, pk); err != nil {
		return err
	}
	return writeTo(vkPath, vk)
}

// Prove reads the proving key from pkPath, proves the full witness against
// the constraint system, and writes the public witness followed by the proof
// to proofPath. The proof file is self-contained for verification.
func Prove(ccs constraint.ConstraintSystem, fullWitness witness.Witness, pkPath, proofPath string) error {
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(pkPath, pk); err != nil {
		return err
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return fmt.Errorf("groth16 prove: %w", err)
	}
	public, err := fullWitness.Public()
	if err != nil {
		return err
	}
	return writeTo(proofPath, public, proof)
}

// Verify reads the verifying key and a proof file produced by Prove and
// checks the proof against the public witness it carries.
func Verify(vkPath, proofPath string) error {
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(vkPath, vk); err != nil {
		return err
	}

	f, err := os.Open(proofPath)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", proofPath, err)
	}
	defer f.Close()
	public, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return err
	}
	if _, err := public.ReadFrom(f); err != nil {
		return fmt.Errorf("reading %s: %w", proofPath, err)
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(f); err != nil {
		return fmt.Errorf("reading %s: %w", proofPath, err)
	}

	return groth16.Verify(proof, vk, public)
}

// SelfTest runs an ephemeral setup, proof and verification round trip,
// discarding the keys. Used by the "test" subcommand and by integration
// tests.
func SelfTest(ccs constraint.ConstraintSystem, fullWitness witness.Witness) error {
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("groth16 setup: %w", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return fmt.Errorf("groth16 prove: %w", err)
	}
	public, err := fullWitness.Public()
	if err != nil {
		return err
	}
	return groth16.Verify(proof, vk, public)
}

func writeTo(path string, artifacts ...io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, a := range artifacts {
		if _, err := a.WriteTo(w); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func readFrom(path string, artifact io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := artifact.ReadFrom(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

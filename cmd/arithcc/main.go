// arithcc compiles Pinocchio/jsnark ".arith" circuits into rank-1 constraint
// systems and runs the Groth16 lifecycle over them.
//
//	arithcc <circuit.arith> genkeys <proving-key.raw> <verification-key.raw>
//	arithcc <circuit.arith> prove <circuit.inputs> <proving-key.raw> <output-proof.raw>
//	arithcc <circuit.arith> verify <verification-key.raw> <proof.raw>
//	arithcc <circuit.arith> eval <circuit.inputs>
//	arithcc <circuit.arith> trace <circuit.inputs>
//	arithcc <circuit.arith> test <circuit.inputs>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/zkforge/arithcc/builder"
	"github.com/zkforge/arithcc/field"
	"github.com/zkforge/arithcc/parser"
	"github.com/zkforge/arithcc/protoboard"
	"github.com/zkforge/arithcc/snark"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitUnsatisfied = 2
	exitMissingArgs = 5
	exitBadCircuit  = 6
	exitFatal       = 255
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	usagePrefix := fmt.Sprintf("Usage: %s <circuit.arith> ", args[0])
	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, usagePrefix+"<genkeys|prove|verify|eval|trace|test>")
		return exitUsage
	}

	arithFile := args[1]
	cmd := args[2]
	sub := args[3:]

	switch cmd {
	case "genkeys":
		if len(sub) < 2 {
			fmt.Fprintln(os.Stderr, usagePrefix+cmd+" <proving-key.raw> <verification-key.raw>")
			return exitMissingArgs
		}
		return mainGenKeys(arithFile, sub[0], sub[1])
	case "prove":
		if len(sub) < 3 {
			fmt.Fprintln(os.Stderr, usagePrefix+cmd+" <circuit.inputs> <proving-key.raw> <output-proof.raw>")
			return exitMissingArgs
		}
		return mainProve(arithFile, sub[0], sub[1], sub[2])
	case "verify":
		if len(sub) < 2 {
			fmt.Fprintln(os.Stderr, usagePrefix+cmd+" <verification-key.raw> <proof.raw>")
			return exitMissingArgs
		}
		return mainVerify(sub[0], sub[1])
	case "test":
		if len(sub) == 0 {
			fmt.Fprintln(os.Stderr, usagePrefix+cmd+" <circuit.inputs>")
			return exitMissingArgs
		}
		return mainTest(arithFile, sub[0])
	case "eval", "trace":
		if len(sub) == 0 {
			fmt.Fprintln(os.Stderr, usagePrefix+cmd+" <circuit.inputs>")
			return exitMissingArgs
		}
		return mainEval(arithFile, sub[0], cmd == "trace")
	}

	fmt.Fprintln(os.Stderr, "Error: unknown sub-command "+cmd)
	return exitUnsatisfied
}

// compile parses the circuit, evaluates the inputs file when one is given,
// and emits constraints into a fresh protoboard. A zero exit code means both
// return values are usable.
func compile(arithFile, inputsFile string, trace bool) (*builder.Builder, *protoboard.Protoboard, int) {
	circuit, err := parser.ParseFile(arithFile)
	if err != nil {
		return nil, nil, fail(err)
	}

	pb := protoboard.New(&field.Engine{})
	var opts []builder.Option
	if trace {
		opts = append(opts, builder.WithTrace())
	}
	b := builder.New(circuit, pb, opts...)

	if inputsFile != "" {
		assignments, err := parser.ParseInputsFile(inputsFile)
		if err != nil {
			return nil, nil, fail(err)
		}
		if err := b.Evaluate(assignments); err != nil {
			return nil, nil, fail(err)
		}
	}
	if err := b.EmitConstraints(); err != nil {
		return nil, nil, fail(err)
	}
	return b, pb, exitOK
}

// fail prints the error and maps it to an exit code: malformed circuits are
// distinguished from everything else.
func fail(err error) int {
	fmt.Fprintln(os.Stderr, "Error:", err)
	var formatErr *parser.FormatError
	var structureErr *builder.StructureError
	if errors.As(err, &formatErr) || errors.As(err, &structureErr) {
		return exitBadCircuit
	}
	return exitFatal
}

func warnUnsatisfied(pb *protoboard.Protoboard) {
	if err := pb.IsSatisfied(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: not satisfied!")
	}
}

func mainGenKeys(arithFile, pkPath, vkPath string) int {
	_, pb, code := compile(arithFile, "", false)
	if code != exitOK {
		return code
	}
	warnUnsatisfied(pb)
	if err := snark.GenKeys(snark.Lower(pb), pkPath, vkPath); err != nil {
		return fail(err)
	}
	return exitOK
}

func mainProve(arithFile, inputsFile, pkPath, proofPath string) int {
	_, pb, code := compile(arithFile, inputsFile, false)
	if code != exitOK {
		return code
	}
	warnUnsatisfied(pb)
	w, err := snark.FullWitness(pb)
	if err != nil {
		return fail(err)
	}
	if err := snark.Prove(snark.Lower(pb), w, pkPath, proofPath); err != nil {
		return fail(err)
	}
	return exitOK
}

func mainVerify(vkPath, proofPath string) int {
	if err := snark.Verify(vkPath, proofPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return exitFatal
		}
		return exitUnsatisfied
	}
	return exitOK
}

func mainTest(arithFile, inputsFile string) int {
	_, pb, code := compile(arithFile, inputsFile, false)
	if code != exitOK {
		return code
	}
	if err := pb.IsSatisfied(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: not satisfied!")
		fmt.Fprintln(os.Stderr, err)
		return exitUnsatisfied
	}
	w, err := snark.FullWitness(pb)
	if err != nil {
		return fail(err)
	}
	if err := snark.SelfTest(snark.Lower(pb), w); err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to test!")
		fmt.Fprintln(os.Stderr, err)
		return exitUnsatisfied
	}
	return exitOK
}

func mainEval(arithFile, inputsFile string, trace bool) int {
	b, pb, code := compile(arithFile, inputsFile, trace)
	if code != exitOK {
		return code
	}
	warnUnsatisfied(pb)
	engine := &field.Engine{}
	values := b.OutputValues()
	for i, wire := range b.Circuit().Outputs {
		fmt.Printf("%d=%s\n", wire, engine.String(values[i]))
	}
	return exitOK
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunExitCodes(t *testing.T) {
	dir := t.TempDir()
	circuit := writeFile(t, dir, "adder.arith", `total 3
input 0
input 1
output 2
add in 2 <0 1> out 1 <2>
`)
	inputs := writeFile(t, dir, "adder.inputs", "0=3\n1=4\n")
	broken := writeFile(t, dir, "broken.arith", "total 3\nadd in 3 <0 1> out 1 <2>\n")

	testcases := []struct {
		name string
		args []string
		want int
	}{
		{"no arguments", []string{"arithcc"}, exitUsage},
		{"missing subcommand", []string{"arithcc", circuit}, exitUsage},
		{"unknown subcommand", []string{"arithcc", circuit, "frobnicate"}, exitUnsatisfied},
		{"genkeys missing args", []string{"arithcc", circuit, "genkeys"}, exitMissingArgs},
		{"prove missing args", []string{"arithcc", circuit, "prove", inputs}, exitMissingArgs},
		{"eval missing inputs arg", []string{"arithcc", circuit, "eval"}, exitMissingArgs},
		{"eval", []string{"arithcc", circuit, "eval", inputs}, exitOK},
		{"trace", []string{"arithcc", circuit, "trace", inputs}, exitOK},
		{"malformed circuit", []string{"arithcc", broken, "eval", inputs}, exitBadCircuit},
		{"unreadable circuit", []string{"arithcc", filepath.Join(dir, "nope.arith"), "eval", inputs}, exitFatal},
		{"unreadable inputs", []string{"arithcc", circuit, "eval", filepath.Join(dir, "nope.inputs")}, exitFatal},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, run(tc.args))
		})
	}
}

func TestRunTestSubcommand(t *testing.T) {
	if testing.Short() {
		t.Skip("groth16 setup is slow")
	}
	dir := t.TempDir()
	circuit := writeFile(t, dir, "adder.arith", `total 3
input 0
input 1
output 2
add in 2 <0 1> out 1 <2>
`)
	inputs := writeFile(t, dir, "adder.inputs", "0=3\n1=4\n")
	require.Equal(t, exitOK, run([]string{"arithcc", circuit, "test", inputs}))

	// an assert over a wire nothing computes reads as zero and cannot hold
	unsat := writeFile(t, dir, "unsat.arith", `total 3
input 0
input 1
assert in 2 <0 1> out 1 <2>
`)
	require.Equal(t, exitUnsatisfied, run([]string{"arithcc", unsat, "test", inputs}))
}

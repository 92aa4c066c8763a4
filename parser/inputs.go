package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consensys/gnark/constraint"

	"github.com/zkforge/arithcc/field"
	"github.com/zkforge/arithcc/ir"
)

// Assignment binds a concrete value to an input wire.
type Assignment struct {
	Wire  ir.Wire
	Value constraint.Element
}

// ParseInputs reads an inputs file: one `<wire-id><sep><value>` pair per
// line, where the separator is `=` or whitespace. Values default to
// hexadecimal; 0x and 0b prefixes are honored. Blank lines are skipped and
// any malformed line is fatal.
func ParseInputs(r io.Reader) ([]Assignment, error) {
	engine := &field.Engine{}
	var assignments []Assignment

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == '=' || r == ' ' || r == '\t'
		})
		if len(fields) != 2 {
			return nil, errorf(lineNo, line, "error in input")
		}
		w, err := parseWire(fields[0])
		if err != nil {
			return nil, errorf(lineNo, line, "bad wire id %q", fields[0])
		}
		v, err := engine.ParseValue(fields[1])
		if err != nil {
			return nil, errorf(lineNo, line, "bad value %q: %v", fields[1], err)
		}
		assignments = append(assignments, Assignment{Wire: w, Value: v})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading inputs: %w", err)
	}
	return assignments, nil
}

// ParseInputsFile opens and parses an inputs file.
func ParseInputsFile(path string) ([]Assignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open input file: %w", err)
	}
	defer f.Close()
	return ParseInputs(f)
}

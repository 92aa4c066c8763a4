// Package parser reads the textual ".arith" gate format emitted by
// circuit-generation front-ends such as Pinocchio and jsnark, and the
// accompanying inputs files. The tokenizer is bounds-checked throughout;
// there is no fixed line or token size limit beyond the scanner buffer.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/zkforge/arithcc/field"
	"github.com/zkforge/arithcc/ir"
)

// maxLine bounds a single directive line; lookup tables can make lines long.
const maxLine = 1 << 20

// maxTableInputs bounds the selector arity of a table directive.
const maxTableInputs = 16

// token is a directive fragment: either a bare word or an angle-bracket
// delimited list of whitespace-separated items.
type token struct {
	word   string
	list   []string
	isList bool
}

// splitTokens tokenizes a directive into words and <...> groups.
func splitTokens(s string) ([]token, bool) {
	var tokens []token
	for {
		s = strings.TrimSpace(s)
		if s == "" {
			return tokens, true
		}
		if s[0] == '<' {
			end := strings.IndexByte(s, '>')
			if end < 0 {
				return nil, false
			}
			tokens = append(tokens, token{list: strings.Fields(s[1:end]), isList: true})
			s = s[end+1:]
			continue
		}
		word := s
		if i := strings.IndexAny(s, " \t<"); i >= 0 {
			word = s[:i]
			s = s[i:]
		} else {
			s = ""
		}
		tokens = append(tokens, token{word: word})
	}
}

func parseWire(s string) (ir.Wire, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return ir.Wire(v), err
}

func parseWireList(items []string) ([]ir.Wire, error) {
	wires := make([]ir.Wire, len(items))
	for i, it := range items {
		w, err := parseWire(it)
		if err != nil {
			return nil, fmt.Errorf("bad wire id %q", it)
		}
		wires[i] = w
	}
	return wires, nil
}

var opcodes = map[string]ir.Opcode{
	"add":    ir.OpAdd,
	"mul":    ir.OpMul,
	"xor":    ir.OpXor,
	"or":     ir.OpOr,
	"assert": ir.OpAssert,
	"zerop":  ir.OpZeroTest,
	"split":  ir.OpSplit,
	"pack":   ir.OpPack,
}

type circuitParser struct {
	engine   *field.Engine
	circuit  ir.Circuit
	sawTotal bool
}

// Parse reads a circuit description and returns the instruction sequence and
// wire role lists. Any malformed line aborts with a *FormatError.
func Parse(r io.Reader) (*ir.Circuit, error) {
	p := &circuitParser{engine: &field.Engine{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := p.directive(lineNo, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading circuit: %w", err)
	}
	if !p.sawTotal {
		return nil, errorf(lineNo, "", "missing total directive")
	}
	return &p.circuit, nil
}

// ParseFile opens and parses a circuit file.
func ParseFile(path string) (*ir.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open circuit file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func (p *circuitParser) directive(lineNo int, line string) error {
	tokens, ok := splitTokens(line)
	if !ok {
		return errorf(lineNo, line, "unterminated wire list")
	}
	if len(tokens) == 0 || tokens[0].isList {
		return errorf(lineNo, line, "cannot parse directive")
	}
	term := tokens[0].word

	if !p.sawTotal {
		if term != "total" {
			return errorf(lineNo, line, "first directive must be total")
		}
		n, err := p.uintArg(tokens)
		if err != nil {
			return errorf(lineNo, line, "cannot parse total: %v", err)
		}
		p.circuit.NbWires = n
		p.sawTotal = true
		return nil
	}

	switch term {
	case "total":
		return errorf(lineNo, line, "duplicate total directive")
	case "input", "nizkinput", "output":
		n, err := p.uintArg(tokens)
		if err != nil {
			return errorf(lineNo, line, "cannot parse %s: %v", term, err)
		}
		w := ir.Wire(n)
		switch term {
		case "input":
			p.circuit.Inputs = append(p.circuit.Inputs, w)
		case "nizkinput":
			p.circuit.NizkInputs = append(p.circuit.NizkInputs, w)
		case "output":
			p.circuit.Outputs = append(p.circuit.Outputs, w)
		}
		return nil
	case "table":
		return p.tableDirective(lineNo, line, tokens)
	default:
		return p.gateDirective(lineNo, line, term, tokens)
	}
}

// uintArg parses directives of the form "<term> <uint>" with nothing after
// the number.
func (p *circuitParser) uintArg(tokens []token) (uint64, error) {
	if len(tokens) != 2 || tokens[1].isList {
		return 0, fmt.Errorf("expected a single number")
	}
	return strconv.ParseUint(tokens[1].word, 10, 64)
}

// gateDirective parses "<op> in <n> <<ids>> out <n> <<ids>>". The declared
// arities are mandatory and must match the id lists exactly.
func (p *circuitParser) gateDirective(lineNo int, line, term string, tokens []token) error {
	inst := ir.Instruction{}
	switch {
	case strings.HasPrefix(term, "const-mul-neg-"):
		c, err := p.engine.FromHexString(strings.TrimPrefix(term, "const-mul-neg-"))
		if err != nil {
			return errorf(lineNo, line, "bad const-mul-neg constant: %v", err)
		}
		inst.Op = ir.OpConstMulNeg
		inst.Constant = p.engine.Neg(c)
	case strings.HasPrefix(term, "const-mul-"):
		c, err := p.engine.FromHexString(strings.TrimPrefix(term, "const-mul-"))
		if err != nil {
			return errorf(lineNo, line, "bad const-mul constant: %v", err)
		}
		inst.Op = ir.OpConstMul
		inst.Constant = c
	default:
		op, ok := opcodes[term]
		if !ok {
			return errorf(lineNo, line, "unrecognized opcode %q", term)
		}
		inst.Op = op
	}

	// tokens: op "in" n <ids> "out" n <ids>
	if len(tokens) != 7 ||
		tokens[1].isList || tokens[1].word != "in" ||
		tokens[2].isList || !tokens[3].isList ||
		tokens[4].isList || tokens[4].word != "out" ||
		tokens[5].isList || !tokens[6].isList {
		return errorf(lineNo, line, "cannot parse gate directive")
	}

	var err error
	if inst.Inputs, err = p.countedWireList(tokens[2].word, tokens[3].list, "input"); err != nil {
		return errorf(lineNo, line, "%v", err)
	}
	if inst.Outputs, err = p.countedWireList(tokens[5].word, tokens[6].list, "output"); err != nil {
		return errorf(lineNo, line, "%v", err)
	}

	p.circuit.Instructions = append(p.circuit.Instructions, inst)
	return nil
}

func (p *circuitParser) countedWireList(count string, items []string, what string) ([]ir.Wire, error) {
	n, err := strconv.ParseUint(count, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("bad %s count %q", what, count)
	}
	wires, err := parseWireList(items)
	if err != nil {
		return nil, err
	}
	if uint64(len(wires)) != n {
		return nil, fmt.Errorf("%s gate mismatch, expected %d got %d", what, n, len(wires))
	}
	return wires, nil
}

// tableDirective parses "table <size> <<entries>> in [n] <<ids>> out [n]
// <<ids>>". The in/out arity counts are optional here, matching the
// extended-pinocchio table form; when present they must match.
func (p *circuitParser) tableDirective(lineNo int, line string, tokens []token) error {
	// strip the leading "table" word, then expect:
	// size <entries> "in" [n] <ids> "out" [n] <ids>
	rest := tokens[1:]
	if len(rest) < 2 || rest[0].isList || !rest[1].isList {
		return errorf(lineNo, line, "cannot parse table directive")
	}
	size, err := strconv.ParseUint(rest[0].word, 10, 32)
	if err != nil {
		return errorf(lineNo, line, "bad table size %q", rest[0].word)
	}
	entries := rest[1].list
	rest = rest[2:]

	inputs, rest, err := p.tableWireSection(rest, "in")
	if err != nil {
		return errorf(lineNo, line, "%v", err)
	}
	outputs, rest, err := p.tableWireSection(rest, "out")
	if err != nil {
		return errorf(lineNo, line, "%v", err)
	}
	if len(rest) != 0 {
		return errorf(lineNo, line, "trailing tokens after table directive")
	}

	if len(inputs) < 1 || len(inputs) > maxTableInputs {
		return errorf(lineNo, line, "unsupported lookup table with %d selector wires", len(inputs))
	}
	if size != uint64(1)<<uint(len(inputs)) {
		return errorf(lineNo, line, "input gate mismatch, %d inputs require table of size %d", len(inputs), 1<<uint(len(inputs)))
	}
	if len(outputs) != 1 {
		return errorf(lineNo, line, "output gate mismatch, expected 1, got %d", len(outputs))
	}
	if uint64(len(entries)) != size {
		return errorf(lineNo, line, "bad number of table entries, got %d expected %d", len(entries), size)
	}

	inst := ir.Instruction{Op: ir.OpTableLookup, Inputs: inputs, Outputs: outputs}
	for _, entry := range entries {
		e, err := p.engine.FromDecimalString(entry)
		if err != nil {
			return errorf(lineNo, line, "bad table entry %q", entry)
		}
		inst.Table = append(inst.Table, e)
	}
	p.circuit.Instructions = append(p.circuit.Instructions, inst)
	return nil
}

// tableWireSection consumes `<keyword> [count] <ids>` from the token stream.
func (p *circuitParser) tableWireSection(tokens []token, keyword string) ([]ir.Wire, []token, error) {
	if len(tokens) == 0 || tokens[0].isList || tokens[0].word != keyword {
		return nil, nil, fmt.Errorf("expected %q section", keyword)
	}
	tokens = tokens[1:]
	declared := int64(-1)
	if len(tokens) > 0 && !tokens[0].isList {
		n, err := strconv.ParseInt(tokens[0].word, 10, 32)
		if err != nil {
			return nil, nil, fmt.Errorf("bad %s count %q", keyword, tokens[0].word)
		}
		declared = n
		tokens = tokens[1:]
	}
	if len(tokens) == 0 || !tokens[0].isList {
		return nil, nil, fmt.Errorf("expected %s wire list", keyword)
	}
	wires, err := parseWireList(tokens[0].list)
	if err != nil {
		return nil, nil, err
	}
	if declared >= 0 && int64(len(wires)) != declared {
		return nil, nil, fmt.Errorf("%s gate mismatch, expected %d got %d", keyword, declared, len(wires))
	}
	return wires, tokens[1:], nil
}

package parser

import "fmt"

// FormatError reports a malformed circuit or inputs file. Parsing is
// fail-fast: the first offending line aborts the whole parse and no partial
// circuit is returned.
type FormatError struct {
	// 1-based line number in the source file
	Line int
	// raw text of the offending line
	Text string
	// what went wrong
	Msg string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s\n\tline: %q", e.Line, e.Msg, e.Text)
}

func errorf(line int, text, format string, args ...interface{}) *FormatError {
	return &FormatError{Line: line, Text: text, Msg: fmt.Sprintf(format, args...)}
}

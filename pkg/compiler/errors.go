package compiler

import "fmt"

// CompileError reports a CSV row (or farm) that fails a compiler-level
// check: an inconsistent project assignment, an invalid farm role alias,
// an empty security-group list, or a malformed row.
type CompileError struct {
	Line       int // 1-based source line, 0 when not row-specific
	Reason     string
	Underlying error
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compiler: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("compiler: %s", e.Reason)
}

func (e *CompileError) Unwrap() error {
	return e.Underlying
}

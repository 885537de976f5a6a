package compiler

import "fmt"

// IDGenerator produces the sequential, zero-padded Step ids a compiled Plan
// uses to link steps via $ref. It replaces original_source's
// module-level make_step_id.counter global with an explicit, per-compile
// instance so two compilations (e.g. in a test, or compiling multiple CSVs
// in one process) never share or race on counter state.
type IDGenerator struct {
	counter int
}

// NewIDGenerator returns an IDGenerator starting at 0; the first Next()
// call returns "000001".
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next step id in sequence.
func (g *IDGenerator) Next() string {
	g.counter++
	return fmt.Sprintf("%06d", g.counter)
}

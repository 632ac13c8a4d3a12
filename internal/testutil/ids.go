package testutil

import "fmt"

// SequentialIDGenerator returns predictable record IDs: "<prefix>-1",
// "<prefix>-2", ... It is backed by a DeterministicClock so it is safe for
// concurrent use and can be Reset between runs.
type SequentialIDGenerator struct {
	prefix string
	clock  *DeterministicClock
}

// NewSequentialIDGenerator creates a generator. An empty prefix defaults
// to "test".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "test"
	}
	return &SequentialIDGenerator{prefix: prefix, clock: NewDeterministicClock()}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.clock.Next())
}

// Reset restarts numbering at 1.
func (g *SequentialIDGenerator) Reset() {
	g.clock.Reset()
}

package testutil

// DefaultID is returned by a FixedIDGenerator built with an empty id.
const DefaultID = "00000000-0000-7000-8000-000000000000"

// FixedIDGenerator generates the same identifier every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same precision written with the same FixedIDGenerator and
// DeterministicClock produces a byte-identical witness.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed identifier generator.
//
// If id is empty, Generate() returns DefaultID.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = DefaultID
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed identifier.
//
// Implements witness.IDGenerator.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

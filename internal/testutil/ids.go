package testutil

// FixedIDGenerator generates the same correlation id every time.
//
// All entries written through a CLI under test land in the same correlation,
// which keeps file paths and golden output stable.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed id generator.
//
// If id is empty, Generate() returns "test-correlation-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-correlation-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

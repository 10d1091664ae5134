package testutil

// DefaultSessionID is used when a scenario does not pin its own ID.
const DefaultSessionID = "test-session-default"

// FixedSessionIDGenerator returns the same session ID on every call.
//
// It satisfies session.IDGenerator. Scenarios pin the ID so that the same
// keys always produce byte-identical tapes.
type FixedSessionIDGenerator struct {
	id string
}

// NewFixedSessionIDGenerator creates a generator for id, or for
// DefaultSessionID when id is empty.
func NewFixedSessionIDGenerator(id string) *FixedSessionIDGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSessionIDGenerator{id: id}
}

// Generate returns the fixed ID.
func (g *FixedSessionIDGenerator) Generate() string {
	return g.id
}

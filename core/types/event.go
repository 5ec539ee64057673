package types

// Event represents a typed change record emitted after a successful state
// transition. The attribute map carries the entity id together with the
// before/after values consumed by downstream persistence.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

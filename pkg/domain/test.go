package domain

// TestItem is a single test declaration found in a source file.
type TestItem struct {
	// ID is the namespace-qualified identity (e.g. "a::b::f"), module-path
	// prefixed for Rust.
	ID string `json:"id"`
	// Name is the declared name without qualification.
	Name string `json:"name"`
	// Path is the absolute file path.
	Path string `json:"path"`
	// StartPosition covers the declaration header line.
	StartPosition Range `json:"start_position"`
	// EndPosition covers the line holding the closing boundary.
	EndPosition Range `json:"end_position"`
}

// ShortName returns the last "::" segment of the id.
func (t TestItem) ShortName() string {
	return ShortName(t.ID)
}

// DiscoveredFile holds the tests of one file in discovery order.
type DiscoveredFile struct {
	Path  string     `json:"path"`
	Tests []TestItem `json:"tests"`
}

// ShortName returns the last "::" separated segment of id.
func ShortName(id string) string {
	for i := len(id) - 1; i > 0; i-- {
		if id[i] == ':' && id[i-1] == ':' {
			return id[i+1:]
		}
	}
	return id
}

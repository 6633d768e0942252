package domain

// MaxCharLength is the column used for "end of line" in ranges.
// Line lengths are never measured; editors clamp the value.
const MaxCharLength = 10000

// Position is a zero-based line/character pair.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineRange covers line from column start to the end-of-line sentinel.
func LineRange(line, start int) Range {
	return Range{
		Start: Position{Line: line, Character: start},
		End:   Position{Line: line, Character: MaxCharLength},
	}
}

// Location pairs a document URI with a range.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

package domain

import "sort"

// MessageType mirrors the editor protocol's message types.
type MessageType int

const (
	MessageError   MessageType = 1
	MessageWarning MessageType = 2
	MessageInfo    MessageType = 3
	MessageLog     MessageType = 4
)

// Message is a free-form notification meant for the user.
type Message struct {
	Type MessageType `json:"type"`
	Text string      `json:"text"`
}

// RunOutcome is the translated result of one test run.
// Files without a parseable failure are absent; absence does not mean
// the file was not tested.
type RunOutcome struct {
	Files    []FileDiagnostics `json:"files"`
	Messages []Message         `json:"messages,omitempty"`
}

// Diagnostics returns the diagnostics recorded for path, or nil.
func (o *RunOutcome) Diagnostics(path string) []Diagnostic {
	for _, f := range o.Files {
		if f.Path == path {
			return f.Diagnostics
		}
	}
	return nil
}

// CountDiagnostics returns the total number of diagnostics across files.
func (o *RunOutcome) CountDiagnostics() int {
	n := 0
	for _, f := range o.Files {
		n += len(f.Diagnostics)
	}
	return n
}

// OutcomeBuilder accumulates diagnostics per file and produces a RunOutcome
// with files sorted by path.
type OutcomeBuilder struct {
	files    map[string][]Diagnostic
	messages []Message
}

// NewOutcomeBuilder returns an empty builder.
func NewOutcomeBuilder() *OutcomeBuilder {
	return &OutcomeBuilder{files: make(map[string][]Diagnostic)}
}

// Add appends d to path's diagnostics.
func (b *OutcomeBuilder) Add(path string, d Diagnostic) {
	b.files[path] = append(b.files[path], d)
}

// AddUnique appends d unless path already holds a diagnostic with the same
// range and message.
func (b *OutcomeBuilder) AddUnique(path string, d Diagnostic) {
	for _, existing := range b.files[path] {
		if existing.Range == d.Range && existing.Message == d.Message {
			return
		}
	}
	b.Add(path, d)
}

// Message records a user-facing message.
func (b *OutcomeBuilder) Message(t MessageType, text string) {
	b.messages = append(b.messages, Message{Type: t, Text: text})
}

// Build returns the accumulated outcome.
func (b *OutcomeBuilder) Build() *RunOutcome {
	out := &RunOutcome{
		Files:    make([]FileDiagnostics, 0, len(b.files)),
		Messages: b.messages,
	}
	for path, diags := range b.files {
		out.Files = append(out.Files, FileDiagnostics{Path: path, Diagnostics: diags})
	}
	sort.Slice(out.Files, func(i, j int) bool {
		return out.Files[i].Path < out.Files[j].Path
	})
	return out
}

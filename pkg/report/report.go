// Package report translates the raw output of native test tools into
// diagnostics matched back to located tests.
//
// Translators are tolerant: malformed lines or events are logged and
// skipped, and failures naming unknown tests are dropped. Only a report
// that cannot be decoded at all is returned as an error.
package report

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/specvital/assert-lsp/pkg/domain"
)

const (
	// MaxInputBytes caps the captured output handed to a translator (32MB).
	MaxInputBytes = 32 * 1024 * 1024
	// MaxLineBytes caps a single scanned line (1MB). Longer lines are skipped.
	MaxLineBytes = 1024 * 1024
)

// Diagnostic source tags, one per framework.
const (
	SourceCargoTest    = "cargo-test"
	SourceCargoNextest = "cargo-nextest"
	SourceGoTest       = "go-test"
	SourceJest         = "jest"
	SourceVitest       = "vitest"
	SourceDeno         = "deno"
	SourcePHPUnit      = "phpunit"
	SourceNodeTest     = "node-test"
)

// ErrMalformedReport is returned when a whole-document report cannot be decoded.
var ErrMalformedReport = errors.New("report: malformed report")

// Input is what a translator works from.
type Input struct {
	// Output is the captured stream or report file content.
	Output []byte
	// WorkspaceRoot is the directory the tool ran in.
	WorkspaceRoot string
	// Targets are the absolute paths the run was asked about.
	Targets []string
	// Items are the tests located in Targets.
	Items []domain.TestItem
	// Logger receives skip notices. Nil uses slog.Default().
	Logger *slog.Logger
}

// Translator turns one tool's output into a RunOutcome.
type Translator func(in Input) (*domain.RunOutcome, error)

func (in Input) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

func (in Input) output() []byte {
	return Truncate(in.Output, MaxInputBytes)
}

// Truncate returns at most limit bytes of data, cut at the last newline
// before the limit when there is one.
func Truncate(data []byte, limit int) []byte {
	if len(data) <= limit {
		return data
	}
	cut := data[:limit]
	if i := bytes.LastIndexByte(cut, '\n'); i > 0 {
		return cut[:i+1]
	}
	return cut
}

func (in Input) hasTarget(path string) bool {
	for _, t := range in.Targets {
		if t == path {
			return true
		}
	}
	return false
}

// targetContaining returns the first target that has path as a substring.
func (in Input) targetContaining(path string) (string, bool) {
	for _, t := range in.Targets {
		if strings.Contains(t, path) {
			return t, true
		}
	}
	return "", false
}

// resolve joins a tool-reported path to the workspace root and cleans it.
func (in Input) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(in.WorkspaceRoot, rel)
}

// forEachLine calls fn for every line of data without its newline.
// Lines longer than MaxLineBytes are skipped.
func forEachLine(data []byte, logger *slog.Logger, fn func(line string)) {
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}
		if len(line) > MaxLineBytes {
			logger.Debug("skipping oversized output line", "bytes", len(line))
			continue
		}
		fn(strings.TrimSuffix(string(line), "\r"))
	}
}

// zeroBased converts a 1-based number reported by a tool, clamping at 0.
func zeroBased(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n - 1
}

func errorDiagnostic(r domain.Range, source, code, message string) domain.Diagnostic {
	return domain.Diagnostic{
		Range:    r,
		Severity: domain.SeverityError,
		Code:     code,
		Source:   source,
		Message:  message,
	}
}

package report

import (
	"encoding/json"
	"fmt"

	"github.com/acarl005/stripansi"

	"github.com/specvital/assert-lsp/pkg/domain"
)

const statusFailed = "failed"

// jsonReport is the --json report shared by jest and vitest.
type jsonReport struct {
	TestResults []jsonFileResult `json:"testResults"`
}

type jsonFileResult struct {
	Name             string          `json:"name"`
	Status           string          `json:"status"`
	AssertionResults []jsonAssertion `json:"assertionResults"`
}

type jsonAssertion struct {
	FullName        string        `json:"fullName"`
	Title           string        `json:"title"`
	Status          string        `json:"status"`
	Location        *jsonLocation `json:"location"`
	FailureMessages []string      `json:"failureMessages"`
}

type jsonLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// JestJSON translates a jest --json report written with --testLocationInResults.
func JestJSON(in Input) (*domain.RunOutcome, error) {
	return translateJSONReport(in, SourceJest, false)
}

// VitestJSON translates a vitest JSON reporter file. Vitest reports the
// column of the enclosing call rather than the assertion, so the column is
// pinned to 0.
func VitestJSON(in Input) (*domain.RunOutcome, error) {
	return translateJSONReport(in, SourceVitest, true)
}

func translateJSONReport(in Input, source string, pinColumn bool) (*domain.RunOutcome, error) {
	logger := in.logger()

	var report jsonReport
	if err := json.Unmarshal(in.output(), &report); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedReport, source, err)
	}

	b := domain.NewOutcomeBuilder()
	for _, file := range report.TestResults {
		if _, ok := in.targetContaining(file.Name); !ok {
			continue
		}
		for _, a := range file.AssertionResults {
			if a.Status != statusFailed {
				continue
			}
			if a.Location == nil {
				logger.Debug("failed assertion without location", "test", a.FullName, "file", file.Name)
				continue
			}

			col := a.Location.Column - 1
			if pinColumn || col < 0 {
				col = 0
			}
			line := a.Location.Line - 1
			if line < 0 {
				line = 0
			}

			for _, msg := range a.FailureMessages {
				b.Add(file.Name, errorDiagnostic(
					domain.LineRange(line, col),
					source, source+"-failed",
					stripansi.Strip(msg),
				))
			}
		}
	}

	return b.Build(), nil
}

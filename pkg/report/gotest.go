package report

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/specvital/assert-lsp/pkg/domain"
)

// goFailureSite matches t.Error/t.Fatal output: four spaces, the test file,
// the line and the first line of the message.
var goFailureSite = regexp.MustCompile(`^\s{4}(\S[^:]*_test\.go):(\d+):(.*)$`)

const goLogIndent = "        "

// Go test2json actions.
const (
	goActionRun    = "run"
	goActionOutput = "output"
)

// goTestEvent is one record of `go test -json`.
type goTestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Output  string    `json:"Output"`
	Elapsed float64   `json:"Elapsed"`
}

// GoTestJSON translates the action stream of `go test -json`.
//
// A failure site line switches the tracked file and line; following output
// accumulates into the message. A diagnostic is emitted when the action
// changes while a site is tracked.
func GoTestJSON(in Input) (*domain.RunOutcome, error) {
	logger := in.logger()
	b := domain.NewOutcomeBuilder()

	var (
		file       string
		line       int
		tracked    bool
		message    strings.Builder
		lastAction string
	)

	forEachLine(in.output(), logger, func(raw string) {
		if strings.TrimSpace(raw) == "" {
			return
		}

		var ev goTestEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			logger.Debug("skipping malformed go test event", "error", err)
			return
		}

		switch ev.Action {
		case goActionRun:
			file, tracked = "", false
			message.Reset()
		case goActionOutput:
			if m := goFailureSite.FindStringSubmatch(strings.TrimRight(ev.Output, "\r\n")); m != nil {
				file, line, tracked = m[1], zeroBased(m[2]), true
				message.Reset()
				message.WriteString(strings.TrimSpace(m[3]))
				message.WriteString("\n")
			} else {
				message.WriteString(strings.TrimPrefix(ev.Output, goLogIndent))
			}
		}

		if ev.Action == lastAction {
			return
		}
		lastAction = ev.Action

		if !tracked {
			return
		}
		if path, ok := in.goTarget(file); ok {
			b.Add(path, errorDiagnostic(
				domain.LineRange(line, 1),
				SourceGoTest, "go-test-failed",
				strings.TrimRight(message.String(), "\n"),
			))
		} else {
			logger.Debug("failure site outside targets", "file", file, "test", ev.Test)
		}
		file, tracked = "", false
	})

	return b.Build(), nil
}

// goTarget resolves a file name printed by the testing package. It prefers
// the workspace-relative path and falls back to the single target whose base
// path matches.
func (in Input) goTarget(file string) (string, bool) {
	if path := in.resolve(file); in.hasTarget(path) {
		return path, true
	}

	suffix := string(filepath.Separator) + filepath.FromSlash(file)
	var found string
	for _, t := range in.Targets {
		if strings.HasSuffix(t, suffix) {
			if found != "" {
				return "", false
			}
			found = t
		}
	}
	return found, found != ""
}

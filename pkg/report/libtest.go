package report

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/specvital/assert-lsp/pkg/domain"
)

var panicSite = regexp.MustCompile(`panicked at ([^:\n]+):(\d+):(\d+):`)

// libtestEvent is one line of `cargo test -- --format json`.
type libtestEvent struct {
	Type    string `json:"type"`
	Event   string `json:"event"`
	Name    string `json:"name"`
	Stdout  string `json:"stdout"`
	Message string `json:"message"`
}

// LibtestJSON translates the newline-delimited JSON events of the libtest
// harness (cargo test with --format json).
func LibtestJSON(in Input) (*domain.RunOutcome, error) {
	logger := in.logger()
	b := domain.NewOutcomeBuilder()

	forEachLine(in.output(), logger, func(line string) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			return
		}

		var ev libtestEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			logger.Debug("skipping malformed libtest event", "error", err)
			return
		}
		if ev.Type != "test" || ev.Event != "failed" {
			return
		}

		item, ok := findItem(in.Items, ev.Name)
		if !ok {
			logger.Warn("failed test has no located item", "name", ev.Name)
			return
		}

		path, rng := item.Path, item.StartPosition
		if m := panicSite.FindStringSubmatch(ev.Stdout); m != nil {
			site := in.resolve(m[1])
			if fileExists(site) {
				path = site
				rng = domain.LineRange(zeroBased(m[2]), zeroBased(m[3]))
			}
		}

		target := path
		if t, ok := in.relatedTarget(path); ok {
			target = t
		}

		message := fmt.Sprintf("[%s] %s", domain.ShortName(ev.Name), libtestMessage(ev))
		d := errorDiagnostic(rng, SourceCargoTest, "cargo-test-failed", message)
		d.RelatedInformation = []domain.RelatedInformation{{
			Location: domain.Location{URI: domain.PathToURI(item.Path), Range: item.StartPosition},
			Message:  fmt.Sprintf("test `%s` defined here", ev.Name),
		}}
		b.AddUnique(target, d)
	})

	return b.Build(), nil
}

// libtestMessage is the panic payload following the "panicked at ...:" line.
func libtestMessage(ev libtestEvent) string {
	if _, after, ok := strings.Cut(ev.Stdout, ":\n"); ok {
		if msg := strings.TrimSpace(after); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(ev.Message); msg != "" {
		return msg
	}
	return "test failed"
}

func findItem(items []domain.TestItem, name string) (domain.TestItem, bool) {
	for _, it := range items {
		if it.ID == name || it.Name == name {
			return it, true
		}
	}
	return domain.TestItem{}, false
}

// relatedTarget returns the target that contains path or is contained by it.
func (in Input) relatedTarget(path string) (string, bool) {
	for _, t := range in.Targets {
		if strings.Contains(t, path) || strings.Contains(path, t) {
			return t, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

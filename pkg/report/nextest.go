package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/specvital/assert-lsp/pkg/domain"
)

var nextestPanic = regexp.MustCompile(`^\s*thread '([^']+)' panicked at ([^:\n]+):(\d+):(\d+):`)

// NextestText translates cargo-nextest's human-readable stderr.
func NextestText(in Input) (*domain.RunOutcome, error) {
	logger := in.logger()
	b := domain.NewOutcomeBuilder()

	var lines []string
	forEachLine([]byte(stripansi.Strip(string(in.output()))), logger, func(line string) {
		lines = append(lines, line)
	})

	for i, line := range lines {
		m := nextestPanic.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		id, rel, lnum, col := m[1], m[2], m[3], m[4]

		var msg strings.Builder
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				break
			}
			msg.WriteString(next)
			msg.WriteString("\n")
		}

		file, ok := in.targetContaining(in.resolve(rel))
		if !ok {
			logger.Debug("panic site outside targets", "path", rel, "test", id)
			continue
		}

		b.AddUnique(file, errorDiagnostic(
			domain.LineRange(zeroBased(lnum), zeroBased(col)),
			SourceCargoNextest, "cargo-nextest-failed", msg.String(),
		))

		item, ok := findSuffixItem(in.Items, id)
		if !ok {
			logger.Warn("failed test has no located item", "name", id)
			continue
		}
		b.AddUnique(item.Path, errorDiagnostic(
			item.StartPosition,
			SourceCargoNextest, "cargo-nextest-failed",
			fmt.Sprintf("`%s` failed at %s:%s:%s\n%s", id, rel, lnum, col, msg.String()),
		))
	}

	return b.Build(), nil
}

// findSuffixItem matches id against item ids on whole "::" segments, in
// either direction.
func findSuffixItem(items []domain.TestItem, id string) (domain.TestItem, bool) {
	for _, it := range items {
		if hasSegmentSuffix(it.ID, id) || hasSegmentSuffix(id, it.ID) {
			return it, true
		}
	}
	return domain.TestItem{}, false
}

func hasSegmentSuffix(s, suffix string) bool {
	return s == suffix || strings.HasSuffix(s, "::"+suffix)
}

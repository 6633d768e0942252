package report

import (
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/specvital/assert-lsp/pkg/domain"
)

var denoLocation = regexp.MustCompile(`=> (.+):(\d+):(\d+)\s*$`)

const (
	denoErrorsMarker   = "ERRORS"
	denoFailuresMarker = "FAILURES"

	// denoStartColumn is the start character of every failure range.
	denoStartColumn = 1
)

type denoPending struct {
	path string
	rng  domain.Range
}

// DenoText translates `deno test` output. Only the ERRORS section is read:
// every "=> file:line:col" header opens a failure whose message is the
// lines up to the next header. Ranges start at column 1 of the header line.
func DenoText(in Input) (*domain.RunOutcome, error) {
	logger := in.logger()
	b := domain.NewOutcomeBuilder()

	var (
		started bool
		stopped bool
		pending *denoPending
		message strings.Builder
	)

	flush := func() {
		if pending != nil {
			if msg := strings.TrimSpace(message.String()); msg != "" {
				b.Add(pending.path, errorDiagnostic(pending.rng, SourceDeno, "deno-test-failed", msg))
			}
		}
		pending = nil
		message.Reset()
	}

	forEachLine([]byte(stripansi.Strip(string(in.output()))), logger, func(line string) {
		if stopped {
			return
		}
		if !started {
			started = strings.Contains(line, denoErrorsMarker)
			return
		}
		if strings.Contains(line, denoFailuresMarker) {
			flush()
			stopped = true
			return
		}

		if m := denoLocation.FindStringSubmatch(line); m != nil {
			flush()
			path := in.resolve(m[1])
			if !in.hasTarget(path) {
				logger.Debug("deno failure outside targets", "path", path)
				return
			}
			pending = &denoPending{
				path: path,
				rng:  domain.LineRange(zeroBased(m[2]), denoStartColumn),
			}
			return
		}

		if pending != nil {
			message.WriteString(line)
			message.WriteString("\n")
		}
	})
	flush()

	return b.Build(), nil
}

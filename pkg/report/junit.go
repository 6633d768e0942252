package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/specvital/assert-lsp/pkg/domain"
)

var (
	phpunitLocation = regexp.MustCompile(`^(.+):(\d+)$`)
	nodeLocation    = regexp.MustCompile(`\((?:file://)?([^():]+):(\d+):(\d+)\)`)
)

// scanFailures streams a JUnit document and calls fn with the text of every
// element whose name starts with "failure".
func scanFailures(data []byte, fn func(text string)) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		depth int
		text  strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if strings.HasPrefix(t.Name.Local, "failure") {
				if depth == 0 {
					text.Reset()
				}
				depth++
			}
		case xml.CharData:
			if depth > 0 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth > 0 && strings.HasPrefix(t.Name.Local, "failure") {
				depth--
				if depth == 0 {
					fn(text.String())
				}
			}
		}
	}
}

// phpunitFailure is the parsed text of a PHPUnit <failure> element.
type phpunitFailure struct {
	Message string
	Path    string
	Line    int
}

// parsePHPUnitFailure splits failure text of the form
//
//	Tests\FooTest::testBar
//
//	Failed asserting that 8 matches expected 1.
//	/path/FooTest.php:28
//
// into the message and the first frame of the trailing location block.
// The leading test identifier line is optional.
func parsePHPUnitFailure(text string) (phpunitFailure, bool) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 1 && isTestIdentifier(strings.TrimSpace(lines[0])) {
		lines = lines[1:]
	}

	first := -1
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if !phpunitLocation.MatchString(line) {
			break
		}
		first = i
	}
	if first < 0 {
		return phpunitFailure{}, false
	}

	m := phpunitLocation.FindStringSubmatch(strings.TrimSpace(lines[first]))
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return phpunitFailure{}, false
	}

	message := strings.TrimSpace(strings.Join(lines[:first], "\n"))
	message = strings.TrimSuffix(message, ".")

	return phpunitFailure{Message: message, Path: m[1], Line: n}, true
}

func isTestIdentifier(s string) bool {
	return strings.Contains(s, "::") && !strings.ContainsAny(s, " \t\n")
}

// PHPUnitXML translates a report written by `phpunit --log-junit`.
func PHPUnitXML(in Input) (*domain.RunOutcome, error) {
	logger := in.logger()
	b := domain.NewOutcomeBuilder()

	err := scanFailures(in.output(), func(text string) {
		f, ok := parsePHPUnitFailure(text)
		if !ok {
			logger.Debug("phpunit failure without location", "text", text)
			return
		}
		b.Add(f.Path, errorDiagnostic(
			domain.LineRange(max(f.Line-1, 0), 1),
			SourcePHPUnit, "phpunit-failed", f.Message,
		))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedReport, SourcePHPUnit, err)
	}

	return b.Build(), nil
}

// NodeTestXML translates the junit reporter output of `node --test`.
// Each failure yields one diagnostic, at its first stack frame pointing into
// a target file.
func NodeTestXML(in Input) (*domain.RunOutcome, error) {
	logger := in.logger()
	b := domain.NewOutcomeBuilder()

	err := scanFailures(in.output(), func(text string) {
		message := strings.TrimPrefix(text, "\n")
		for _, line := range strings.Split(text, "\n") {
			m := nodeLocation.FindStringSubmatch(line)
			if m == nil || !in.hasTarget(m[1]) {
				continue
			}
			b.AddUnique(m[1], errorDiagnostic(
				domain.LineRange(zeroBased(m[2]), zeroBased(m[3])),
				SourceNodeTest, "node-test-failed", message,
			))
			return
		}
	})
	if err != nil {
		logger.Warn("node test report truncated", "error", err)
	}

	return b.Build(), nil
}

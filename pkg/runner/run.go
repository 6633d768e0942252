package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/report"
)

// nextestTestsFailed is the exit status cargo-nextest uses when tests ran
// and some failed.
const nextestTestsFailed = 100

// invocation is a prepared tool run.
type invocation struct {
	cmd Command
	// reportPath is set when the tool writes its results to a file.
	reportPath string
	// fromStderr is set when results are read from stderr.
	fromStderr bool
}

// Run executes the native tool for files in workspace and translates its
// output. The call blocks until the tool exits.
func (r *Runner) Run(ctx context.Context, files []string, workspaceDir string, extraArgs []string) (*domain.RunOutcome, error) {
	discovered := r.Discover(ctx, files)
	for _, fe := range discovered.Errors {
		r.options.Logger.Debug("discovery failed", "path", fe.Path, "phase", fe.Phase, "error", fe.Err)
	}
	items := discovered.Items()

	inv := r.invocation(files, workspaceDir, extraArgs, items)
	if inv.reportPath != "" {
		if err := os.MkdirAll(filepath.Dir(inv.reportPath), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		_ = os.Remove(inv.reportPath)
	}

	r.options.Logger.Debug("running tests", "kind", r.kind, "command", inv.cmd.String(), "dir", workspaceDir)
	res, err := r.options.Executor.Execute(ctx, inv.cmd)
	if err != nil {
		return nil, err
	}
	r.writeDebugLog(res)

	output, err := r.selectOutput(inv, res)
	if err != nil {
		return nil, err
	}

	out, err := r.kind.translator()(report.Input{
		Output:        output,
		WorkspaceRoot: workspaceDir,
		Targets:       files,
		Items:         items,
		Logger:        r.options.Logger,
	})
	if err != nil {
		return nil, err
	}

	if res.Truncated {
		out.Messages = append(out.Messages, domain.Message{
			Type: domain.MessageWarning,
			Text: fmt.Sprintf("%s output exceeded %d bytes and was truncated", r.kind, r.options.MaxOutput),
		})
	}
	return out, nil
}

func (r *Runner) invocation(files []string, dir string, extra []string, items []domain.TestItem) invocation {
	cmd := Command{Dir: dir, Env: r.options.Env}

	switch r.kind {
	case KindCargoTest:
		cmd.Name = "cargo"
		cmd.Args = append([]string{"test"}, extra...)
		cmd.Args = append(cmd.Args, "--", "-Z", "unstable-options", "--format", "json")
		cmd.Args = append(cmd.Args, testIDs(items)...)
		return invocation{cmd: cmd}

	case KindCargoNextest:
		cmd.Name = "cargo"
		cmd.Args = append([]string{"nextest", "run", "--workspace", "--no-fail-fast"}, extra...)
		cmd.Args = append(cmd.Args, "--")
		cmd.Args = append(cmd.Args, testIDs(items)...)
		return invocation{cmd: cmd, fromStderr: true}

	case KindGoTest:
		cmd.Name = "go"
		cmd.Args = append([]string{"test", "-v", "-json", "-count=1", "-timeout=60s"}, extra...)
		return invocation{cmd: cmd}

	case KindJest:
		path := filepath.Join(r.options.CacheDir, "jest.json")
		cmd.Name = "jest"
		cmd.Args = append([]string{
			"--testLocationInResults", "--forceExit", "--no-coverage", "--json",
			"--outputFile", path,
		}, extra...)
		return invocation{cmd: cmd, reportPath: path}

	case KindVitest:
		path := filepath.Join(r.options.CacheDir, "vitest.json")
		cmd.Name = "vitest"
		cmd.Args = append([]string{"--watch=false", "--reporter=json", "--outputFile=" + path}, extra...)
		return invocation{cmd: cmd, reportPath: path}

	case KindDeno:
		cmd.Name = "deno"
		cmd.Args = append([]string{"test", "--no-prompt"}, extra...)
		cmd.Args = append(cmd.Args, files...)
		return invocation{cmd: cmd}

	case KindNodeTest:
		cmd.Name = "node"
		cmd.Args = append([]string{"--test", "--test-reporter", "junit"}, extra...)
		cmd.Args = append(cmd.Args, files...)
		return invocation{cmd: cmd}

	case KindPHPUnit:
		path := filepath.Join(r.options.CacheDir, "phpunit.xml")
		filter := ".*"
		if len(extra) > 0 {
			filter, extra = extra[0], extra[1:]
		}
		cmd.Name = "phpunit"
		cmd.Args = append([]string{"--log-junit", path, "--filter", filter}, extra...)
		cmd.Args = append(cmd.Args, files...)
		return invocation{cmd: cmd, reportPath: path}

	default:
		panic(fmt.Sprintf("runner: no invocation for kind %q", r.kind))
	}
}

// selectOutput picks the bytes to translate and applies the ambiguous-signal
// rule: a run that wrote nothing to its result stream but something to
// stderr failed before producing results.
func (r *Runner) selectOutput(inv invocation, res *Result) ([]byte, error) {
	stderr := bytes.TrimSpace(res.Stderr)

	switch {
	case inv.reportPath != "":
		data, err := os.ReadFile(inv.reportPath)
		if errors.Is(err, fs.ErrNotExist) {
			if len(stderr) > 0 {
				return nil, &AdapterError{Kind: r.kind, Stderr: string(stderr)}
			}
			return nil, fmt.Errorf("%w: %s", ErrNoOutput, inv.reportPath)
		}
		if err != nil {
			return nil, fmt.Errorf("read report: %w", err)
		}
		return data, nil

	case inv.fromStderr:
		if len(bytes.TrimSpace(res.Stdout)) == 0 && len(stderr) > 0 &&
			res.ExitCode != 0 && res.ExitCode != nextestTestsFailed {
			return nil, &AdapterError{Kind: r.kind, Stderr: string(stderr)}
		}
		return res.Stderr, nil

	default:
		if len(bytes.TrimSpace(res.Stdout)) == 0 {
			if len(stderr) > 0 {
				return nil, &AdapterError{Kind: r.kind, Stderr: string(stderr)}
			}
			if r.kind == KindDeno {
				return nil, fmt.Errorf("%w: deno test wrote no output", ErrNoOutput)
			}
		}
		return res.Stdout, nil
	}
}

// writeDebugLog persists the raw streams of the last run. Failures are
// logged and otherwise ignored.
func (r *Runner) writeDebugLog(res *Result) {
	if err := os.MkdirAll(r.options.CacheDir, 0o755); err != nil {
		r.options.Logger.Warn("create cache dir", "dir", r.options.CacheDir, "error", err)
		return
	}

	var buf bytes.Buffer
	buf.WriteString("stdout:\n")
	buf.Write(res.Stdout)
	buf.WriteString("\nstderr:\n")
	buf.Write(res.Stderr)

	path := filepath.Join(r.options.CacheDir, string(r.kind)+".log")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		r.options.Logger.Warn("write debug log", "path", path, "error", err)
	}
}

func testIDs(items []domain.TestItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

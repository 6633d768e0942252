// Package engine drives discovery and test runs for a project on behalf of
// an editor-facing front end. It owns the workspace snapshot and turns run
// outcomes into per-file publications.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/specvital/assert-lsp/pkg/config"
	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/runner"
	"github.com/specvital/assert-lsp/pkg/workspace"
)

// ErrNotInWorkspace is returned when a file belongs to no configured adapter.
var ErrNotInWorkspace = errors.New("engine: file is not part of any workspace")

// Publication replaces the diagnostics of one file. An empty Diagnostics
// slice clears what was published before.
type Publication struct {
	Path        string              `json:"path"`
	URI         string              `json:"uri"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
}

// Result is what a diagnose request produced.
type Result struct {
	Publications []Publication    `json:"publications"`
	Messages     []domain.Message `json:"messages,omitempty"`
}

func (r *Result) merge(other *Result) {
	r.Publications = append(r.Publications, other.Publications...)
	r.Messages = append(r.Messages, other.Messages...)
}

// Options configures an Engine.
type Options struct {
	// RunnerOptions are passed to every runner the engine creates.
	RunnerOptions []runner.Option

	// Logger receives progress output. Nil uses slog.Default().
	Logger *slog.Logger
}

// Option is a functional option for configuring an Engine.
type Option func(*Options)

// WithRunnerOptions adds options for the runners the engine creates.
func WithRunnerOptions(opts ...runner.Option) Option {
	return func(o *Options) {
		o.RunnerOptions = append(o.RunnerOptions, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Engine serves one project directory.
type Engine struct {
	projectDir string
	cfg        *config.Config
	store      *workspace.Store
	options    *Options
}

// New creates an engine for projectDir. A nil cfg uses config.Default().
func New(projectDir string, cfg *config.Config, opts ...Option) *Engine {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Default()
	}

	return &Engine{
		projectDir: projectDir,
		cfg:        cfg,
		store:      workspace.NewStore(),
		options:    o,
	}
}

// Snapshot returns the current workspace partition.
func (e *Engine) Snapshot() *workspace.Snapshot {
	return e.store.Load()
}

// RefreshWorkspaces rebuilds the workspace partition of every adapter.
// Configuration warnings are returned as messages.
func (e *Engine) RefreshWorkspaces(ctx context.Context) (*workspace.Snapshot, []domain.Message, error) {
	var messages []domain.Message
	for _, w := range e.cfg.Warnings() {
		e.options.Logger.Warn(w)
		messages = append(messages, domain.Message{Type: domain.MessageWarning, Text: w})
	}

	snap, err := e.store.Rebuild(ctx, e.buildAnalyses)
	if err != nil {
		return nil, messages, fmt.Errorf("refresh workspaces: %w", err)
	}

	e.options.Logger.Info("workspaces refreshed", "version", snap.Version, "adapters", len(snap.Analyses))
	return snap, messages, nil
}

func (e *Engine) buildAnalyses(ctx context.Context) ([]workspace.Analysis, error) {
	var analyses []workspace.Analysis

	for _, id := range e.cfg.AdapterIDs() {
		adapter := e.cfg.Adapters[id]
		r, err := e.runner(adapter)
		if err != nil {
			e.options.Logger.Error("skipping adapter", "adapter", id, "error", err)
			continue
		}
		kind := r.Kind()

		files, err := workspace.CollectFiles(ctx, &workspace.Scope{
			BaseDir:    e.projectDir,
			Include:    adapter.Include,
			Exclude:    adapter.Exclude,
			Extensions: kind.Extensions(),
		})
		if err != nil {
			return nil, fmt.Errorf("collect files for %s: %w", id, err)
		}
		if len(files) == 0 {
			e.options.Logger.Debug("adapter matched no files", "adapter", id)
			continue
		}

		workspaces := r.DetectWorkspaces(files)
		if adapter.WorkspaceDir != "" {
			workspaces = collapse(workspaces, config.ResolvePath(e.projectDir, adapter.WorkspaceDir))
		}

		analyses = append(analyses, workspace.Analysis{
			AdapterID:  id,
			TestKind:   kind.String(),
			ExtraArgs:  adapter.ExtraArgs,
			Env:        adapter.Env,
			Workspaces: workspaces,
		})
	}

	return analyses, nil
}

// collapse moves every member of m under the single root dir.
func collapse(m domain.WorkspaceMap, dir string) domain.WorkspaceMap {
	out := make(domain.WorkspaceMap, 1)
	for _, root := range m.Roots() {
		for _, f := range m[root] {
			out.Attach(dir, f)
		}
	}
	return out
}

// DiagnoseWorkspace refreshes the partition and runs every workspace root.
// A failing root is reported as an error message and does not stop the
// others.
func (e *Engine) DiagnoseWorkspace(ctx context.Context) (*Result, error) {
	snap, messages, err := e.RefreshWorkspaces(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Messages: messages}
	for _, a := range snap.Analyses {
		for _, root := range a.Workspaces.Roots() {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.merge(e.diagnose(ctx, a, root, a.Workspaces[root]))
		}
	}
	return result, nil
}

// CheckFile runs the tests of a single file in every workspace listing it.
// The partition is refreshed first when it is empty or does not know path.
func (e *Engine) CheckFile(ctx context.Context, path string) (*Result, error) {
	snap, messages, err := e.ensureContains(ctx, path)
	if err != nil {
		return nil, err
	}

	result := &Result{Messages: messages}
	for _, a := range snap.Analyses {
		for _, root := range a.Workspaces.Roots() {
			if !slices.Contains(a.Workspaces[root], path) {
				continue
			}
			result.merge(e.diagnose(ctx, a, root, []string{path}))
		}
	}
	return result, nil
}

// DiscoverFile locates the tests in path with the runner of the first
// adapter whose workspace lists it.
func (e *Engine) DiscoverFile(ctx context.Context, path string) ([]domain.TestItem, error) {
	snap, _, err := e.ensureContains(ctx, path)
	if err != nil {
		return nil, err
	}

	for _, a := range snap.Analyses {
		if !analysisContains(a, path) {
			continue
		}
		r, err := runner.Get(a.TestKind, e.options.RunnerOptions...)
		if err != nil {
			return nil, err
		}
		result := r.Discover(ctx, []string{path})
		if len(result.Errors) > 0 {
			return nil, result.Errors[0]
		}
		return result.Items(), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotInWorkspace, path)
}

func (e *Engine) ensureContains(ctx context.Context, path string) (*workspace.Snapshot, []domain.Message, error) {
	snap := e.store.Load()
	if snap.Version > 0 && snap.Contains(path) {
		return snap, nil, nil
	}
	return e.RefreshWorkspaces(ctx)
}

// diagnose runs one adapter over paths in root and publishes every path,
// including those without failures.
func (e *Engine) diagnose(ctx context.Context, a workspace.Analysis, root string, paths []string) *Result {
	logger := e.options.Logger.With("adapter", a.AdapterID, "workspace", root)
	logger.Info("running tests", "files", len(paths))

	r, err := runner.Get(a.TestKind, e.runnerOptions(a)...)
	if err != nil {
		return errorResult(err)
	}

	out, err := r.Run(ctx, paths, root, a.ExtraArgs)
	if err != nil {
		logger.Error("test runner failed", "error", err)
		return errorResult(err)
	}

	result := &Result{Messages: out.Messages}
	for _, path := range paths {
		diags := out.Diagnostics(path)
		if diags == nil {
			diags = []domain.Diagnostic{}
		}
		logger.Debug("publishing diagnostics", "path", path, "count", len(diags))
		result.Publications = append(result.Publications, Publication{
			Path:        path,
			URI:         domain.PathToURI(path),
			Diagnostics: diags,
		})
	}
	return result
}

func (e *Engine) runner(adapter config.Adapter) (*runner.Runner, error) {
	return runner.Get(adapter.TestKind, e.options.RunnerOptions...)
}

func (e *Engine) runnerOptions(a workspace.Analysis) []runner.Option {
	opts := []runner.Option{
		runner.WithCacheDir(e.cfg.CacheDir),
		runner.WithEnv(a.Env),
		runner.WithLogger(e.options.Logger),
	}
	// Caller options come last so tests and front ends can override.
	return append(opts, e.options.RunnerOptions...)
}

func errorResult(err error) *Result {
	return &Result{Messages: []domain.Message{{
		Type: domain.MessageError,
		Text: fmt.Sprintf("Test runner failed: %v", err),
	}}}
}

func analysisContains(a workspace.Analysis, path string) bool {
	for _, files := range a.Workspaces {
		if slices.Contains(files, path) {
			return true
		}
	}
	return false
}

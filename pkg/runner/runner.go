// Package runner binds each supported test kind to its locator query,
// native tool invocation, output translator and workspace markers.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/parser"
	"github.com/specvital/assert-lsp/pkg/workspace"
)

// Runner discovers, runs and translates tests for one kind.
type Runner struct {
	kind    Kind
	options *Options
}

// Get looks up the runner for a test kind key.
func Get(key string, opts ...Option) (*Runner, error) {
	kind, err := ParseKind(key)
	if err != nil {
		return nil, err
	}
	return New(kind, opts...), nil
}

// New creates a runner for kind.
func New(kind Kind, opts ...Option) *Runner {
	return &Runner{
		kind:    kind,
		options: applyDefaults(opts),
	}
}

// Kind returns the runner's test kind.
func (r *Runner) Kind() Kind {
	return r.kind
}

// DiscoverResult contains the outcome of a discovery batch.
type DiscoverResult struct {
	// Files holds one entry per successfully parsed file, sorted by path.
	Files []domain.DiscoveredFile

	// Errors contains per-file failures. They never affect other files.
	Errors []FileError
}

// Items flattens the tests of every file.
func (d *DiscoverResult) Items() []domain.TestItem {
	var items []domain.TestItem
	for _, f := range d.Files {
		items = append(items, f.Tests...)
	}
	return items
}

// Discover locates the tests of every file concurrently.
func (r *Runner) Discover(ctx context.Context, files []string) *DiscoverResult {
	workers := r.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu     sync.Mutex
		result = &DiscoverResult{
			Files:  make([]domain.DiscoveredFile, 0, len(files)),
			Errors: make([]FileError, 0),
		}
	)

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, FileError{Err: err, Path: file, Phase: "parsing"})
				mu.Unlock()
				return nil
			}
			defer sem.Release(1)

			discovered, fileErr := r.discoverFile(gCtx, file)

			mu.Lock()
			defer mu.Unlock()

			if fileErr != nil {
				result.Errors = append(result.Errors, *fileErr)
				return nil
			}
			result.Files = append(result.Files, *discovered)
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines finish in arbitrary order.
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	return result
}

func (r *Runner) discoverFile(ctx context.Context, path string) (*domain.DiscoveredFile, *FileError) {
	if err := ctx.Err(); err != nil {
		return nil, &FileError{Err: err, Path: path, Phase: "parsing"}
	}

	lang, err := r.kind.language(path)
	if err != nil {
		return nil, &FileError{Err: err, Path: path, Phase: "language"}
	}

	opts := []parser.LocateOption{parser.WithLogger(r.options.Logger)}
	if r.kind.usesModulePath() {
		opts = append(opts, parser.WithModulePath(parser.ModulePath(path)))
	}

	items, err := parser.Locate(ctx, path, lang, r.kind.query(), opts...)
	if err != nil {
		return nil, &FileError{Err: fmt.Errorf("locate: %w", err), Path: path, Phase: "parsing"}
	}
	if items == nil {
		items = []domain.TestItem{}
	}

	return &domain.DiscoveredFile{Path: path, Tests: items}, nil
}

// DetectWorkspaces groups files under the project roots marked for this kind.
func (r *Runner) DetectWorkspaces(files []string) domain.WorkspaceMap {
	cache := workspace.NewCache()
	resolver := workspace.NewResolver(cache, r.options.MaxDepth)
	m := resolver.Detect(files, r.kind.Markers())
	r.options.Logger.Debug("workspaces detected",
		"kind", r.kind, "files", len(files), "roots", len(m), "dirs_visited", cache.Size())
	return m
}

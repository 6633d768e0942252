package workspace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/specvital/assert-lsp/pkg/domain"
)

// Analysis is the partition computed for one configured adapter.
type Analysis struct {
	// AdapterID names the adapter entry in the configuration.
	AdapterID string
	// TestKind is the adapter's test kind.
	TestKind string
	// ExtraArgs are forwarded to the native tool.
	ExtraArgs []string
	// Env is added to the native tool's environment.
	Env map[string]string
	// Workspaces maps roots to member files.
	Workspaces domain.WorkspaceMap
}

// Snapshot is an immutable view of every adapter's workspaces.
// Callers must not modify a snapshot obtained from a Store.
type Snapshot struct {
	Version  uint64
	BuiltAt  time.Time
	Analyses []Analysis
}

// Contains reports whether any analysis lists path as a member.
func (s *Snapshot) Contains(path string) bool {
	if s == nil {
		return false
	}
	for _, a := range s.Analyses {
		for _, files := range a.Workspaces {
			for _, f := range files {
				if f == path {
					return true
				}
			}
		}
	}
	return false
}

// BuildFunc computes a fresh set of analyses.
type BuildFunc func(ctx context.Context) ([]Analysis, error)

// Store owns the current snapshot. Rebuilds are serialised; readers load
// the snapshot atomically and never observe a partial rebuild.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	version uint64
	now     func() time.Time
}

// NewStore returns a store holding an empty version-0 snapshot.
func NewStore() *Store {
	s := &Store{now: time.Now}
	s.current.Store(&Snapshot{})
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// Rebuild runs build and, on success, swaps in the result as a new version.
// On failure the previous snapshot stays current.
func (s *Store) Rebuild(ctx context.Context, build BuildFunc) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	analyses, err := build(ctx)
	if err != nil {
		return s.current.Load(), err
	}

	s.version++
	next := &Snapshot{
		Version:  s.version,
		BuiltAt:  s.now(),
		Analyses: analyses,
	}
	s.current.Store(next)
	return next, nil
}

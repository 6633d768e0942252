package runner

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specvital/assert-lsp/pkg/report"
)

const (
	// DefaultWorkers is the default number of concurrent discovery workers (0 = GOMAXPROCS).
	DefaultWorkers = 0
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
)

// DefaultCacheDir is where report files and debug logs are written.
func DefaultCacheDir() string {
	return filepath.Join(os.TempDir(), "assert-lsp")
}

// Options configures a Runner.
type Options struct {
	// Executor runs native tools. Nil uses ExecExecutor.
	Executor Executor

	// CacheDir receives report files and debug logs.
	CacheDir string

	// Env is added to the native tool's environment.
	Env map[string]string

	// Workers specifies the number of concurrent file parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int

	// MaxOutput caps captured stdout/stderr per stream, in bytes.
	MaxOutput int

	// MaxDepth bounds the upward marker search of DetectWorkspaces.
	MaxDepth int

	// Logger receives progress and skip notices.
	Logger *slog.Logger
}

// Option is a functional option for configuring a Runner.
type Option func(*Options)

// WithExecutor sets the tool executor.
func WithExecutor(e Executor) Option {
	return func(o *Options) {
		o.Executor = e
	}
}

// WithCacheDir sets the directory for report files and debug logs.
func WithCacheDir(dir string) Option {
	return func(o *Options) {
		o.CacheDir = dir
	}
}

// WithEnv adds environment variables to the native tool's environment.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithMaxOutput caps captured output per stream.
// Non-positive values are ignored.
func WithMaxOutput(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxOutput = n
		}
	}
}

// WithMaxDepth bounds the upward marker search.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

func applyDefaults(opts []Option) *Options {
	o := &Options{
		Workers:   DefaultWorkers,
		MaxOutput: report.MaxInputBytes,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Executor == nil {
		o.Executor = ExecExecutor{MaxOutput: o.MaxOutput}
	}
	if o.CacheDir == "" {
		o.CacheDir = DefaultCacheDir()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

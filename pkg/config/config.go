// Package config loads adapter configuration from .assert-lsp.toml, from
// JSON initialization options, or by detecting the project type.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/specvital/assert-lsp/pkg/runner"
)

// FileName is the configuration file looked up in the project directory.
const FileName = ".assert-lsp.toml"

// ErrConfigNotFound is returned when the project has no configuration file.
var ErrConfigNotFound = errors.New("config: configuration file not found")

// Adapter configures one test tool invocation.
type Adapter struct {
	// TestKind selects the runner (see runner.Kinds).
	TestKind string `toml:"test_kind" json:"test_kind"`
	// ExtraArgs are appended to the tool's command line.
	ExtraArgs []string `toml:"extra_arg" json:"extra_arg"`
	// Env is added to the tool's environment.
	Env map[string]string `toml:"env" json:"env"`
	// Include and Exclude are doublestar patterns relative to the project.
	Include []string `toml:"include" json:"include"`
	Exclude []string `toml:"exclude" json:"exclude"`
	// WorkspaceDir, when set, collapses every detected root into this one.
	WorkspaceDir string `toml:"workspace_dir" json:"workspace_dir"`
}

// Validate returns human-readable problems with the adapter. They are
// warnings: the adapter is still loaded.
func (a Adapter) Validate(id string) []string {
	var warnings []string

	if strings.TrimSpace(a.TestKind) == "" {
		return append(warnings, fmt.Sprintf("Adapter '%s': test_kind is not set", id))
	}
	if _, err := runner.ParseKind(a.TestKind); err != nil {
		kinds := make([]string, 0, len(runner.Kinds()))
		for _, k := range runner.Kinds() {
			kinds = append(kinds, k.String())
		}
		warnings = append(warnings, fmt.Sprintf(
			"Adapter '%s': unknown test_kind '%s'. Valid values are: %s",
			id, a.TestKind, strings.Join(kinds, ", ")))
	}
	return warnings
}

// Config is the top-level configuration.
type Config struct {
	// CacheDir receives report files and debug logs.
	CacheDir string `toml:"cache_dir" json:"cache_dir"`
	// Adapters are keyed by an arbitrary adapter id.
	Adapters map[string]Adapter `toml:"adapter_command" json:"adapter_command"`
}

// Default returns an empty configuration using the default cache dir.
func Default() *Config {
	return &Config{
		CacheDir: runner.DefaultCacheDir(),
		Adapters: map[string]Adapter{},
	}
}

// Load reads a TOML configuration file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadFromDir reads FileName from dir.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}

// FromJSON decodes JSON initialization options using the TOML keys.
func FromJSON(data []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode initialization options: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Resolve picks the configuration for dir: the TOML file when present, then
// JSON initialization options when given, then project detection. An empty
// configuration is not an error.
func Resolve(dir string, initOptions []byte) (*Config, error) {
	cfg, err := LoadFromDir(dir)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	if len(initOptions) > 0 {
		return FromJSON(initOptions)
	}

	return FromDetected(Detect(dir)), nil
}

// AdapterIDs returns the adapter ids in lexical order.
func (c *Config) AdapterIDs() []string {
	ids := make([]string, 0, len(c.Adapters))
	for id := range c.Adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Warnings validates every adapter.
func (c *Config) Warnings() []string {
	var warnings []string
	for _, id := range c.AdapterIDs() {
		warnings = append(warnings, c.Adapters[id].Validate(id)...)
	}
	return warnings
}

func (c *Config) normalize() {
	if c.CacheDir == "" {
		c.CacheDir = runner.DefaultCacheDir()
	}
	if c.Adapters == nil {
		c.Adapters = map[string]Adapter{}
	}
}

// ResolvePath makes p absolute against base and removes "." and ".."
// components.
func ResolvePath(base, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	return filepath.Clean(p)
}

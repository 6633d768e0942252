package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/specvital/assert-lsp/pkg/runner"
)

// DetectedProject is a project type found by its marker files.
type DetectedProject struct {
	Kind runner.Kind
	Root string
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Scripts         map[string]string `json:"scripts"`
}

func (p packageJSON) hasDependency(name string) bool {
	_, dep := p.Dependencies[name]
	_, dev := p.DevDependencies[name]
	return dep || dev
}

func (p packageJSON) usesNodeTest() bool {
	for _, script := range p.Scripts {
		if strings.Contains(script, "node --test") {
			return true
		}
	}
	return false
}

// Detect inspects dir for marker files and returns the projects found.
// Only dir itself is inspected.
func Detect(dir string) []DetectedProject {
	var projects []DetectedProject
	add := func(k runner.Kind) {
		projects = append(projects, DetectedProject{Kind: k, Root: dir})
	}

	if exists(dir, "Cargo.toml") {
		add(runner.KindCargoTest)
	}

	if data, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var pkg packageJSON
		if err := json.Unmarshal(data, &pkg); err == nil {
			switch {
			case pkg.hasDependency("vitest"):
				add(runner.KindVitest)
			case pkg.hasDependency("jest"):
				add(runner.KindJest)
			case pkg.usesNodeTest():
				add(runner.KindNodeTest)
			}
		}
	}

	if exists(dir, "deno.json") || exists(dir, "deno.jsonc") {
		add(runner.KindDeno)
	}

	if exists(dir, "go.mod") {
		add(runner.KindGoTest)
	}

	if data, err := os.ReadFile(filepath.Join(dir, "composer.json")); err == nil {
		if strings.Contains(string(data), `"phpunit/phpunit"`) || exists(dir, "phpunit.xml") || exists(dir, "phpunit.xml.dist") {
			add(runner.KindPHPUnit)
		}
	}

	return projects
}

// FromDetected builds a configuration with one adapter per detected
// project, keyed by test kind.
func FromDetected(projects []DetectedProject) *Config {
	cfg := Default()
	for _, p := range projects {
		cfg.Adapters[p.Kind.String()] = Adapter{
			TestKind:     p.Kind.String(),
			Env:          map[string]string{},
			Include:      p.Kind.DefaultInclude(),
			Exclude:      p.Kind.DefaultExclude(),
			WorkspaceDir: p.Root,
		}
	}
	return cfg
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/specvital/assert-lsp/pkg/runner"
)

var discoverCmd = &cobra.Command{
	Use:   "discover --kind <kind> <file>...",
	Short: "List the tests located in source files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiscover,
}

func init() {
	discoverCmd.Flags().String("kind", "", "test kind (cargo-test|cargo-nextest|go-test|jest|vitest|deno|node-test|phpunit)")
	discoverCmd.Flags().Int("jobs", 0, "max parallel parsers (0=auto)")
	_ = discoverCmd.MarkFlagRequired("kind")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	kind, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	r, err := runner.Get(kind, runner.WithWorkers(jobs), runner.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	files, err := absPaths(args)
	if err != nil {
		return err
	}

	result := r.Discover(cmd.Context(), files)
	for _, fe := range result.Errors {
		slog.Warn("discovery failed", "path", fe.Path, "phase", fe.Phase, "error", fe.Err)
	}
	return writeJSON(cmd.OutOrStdout(), result.Files)
}

func absPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		out = append(out, abs)
	}
	return out, nil
}

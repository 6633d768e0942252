package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specvital/assert-lsp/pkg/runner"
)

var runCmd = &cobra.Command{
	Use:   "run --kind <kind> --workspace <dir> <file>...",
	Short: "Run the tests of files and print the translated outcome",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().String("kind", "", "test kind")
	runCmd.Flags().String("workspace", ".", "directory the native tool runs in")
	runCmd.Flags().StringArray("extra-arg", nil, "argument forwarded to the native tool (repeatable)")
	runCmd.Flags().String("cache-dir", runner.DefaultCacheDir(), "directory for report files and debug logs")
	runCmd.Flags().StringToString("env", nil, "environment variable for the native tool (KEY=VALUE)")
	runCmd.Flags().Bool("table", false, "print diagnostics as a table")
	_ = runCmd.MarkFlagRequired("kind")
}

func runRun(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	kind, err := flags.GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	ws, err := flags.GetString("workspace")
	if err != nil {
		return fmt.Errorf("failed to get workspace flag: %w", err)
	}
	extra, err := flags.GetStringArray("extra-arg")
	if err != nil {
		return fmt.Errorf("failed to get extra-arg flag: %w", err)
	}
	cacheDir, err := flags.GetString("cache-dir")
	if err != nil {
		return fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	env, err := flags.GetStringToString("env")
	if err != nil {
		return fmt.Errorf("failed to get env flag: %w", err)
	}

	r, err := runner.Get(kind,
		runner.WithCacheDir(cacheDir),
		runner.WithEnv(env),
		runner.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	files, err := absPaths(args)
	if err != nil {
		return err
	}
	paths, err := absPaths([]string{ws})
	if err != nil {
		return err
	}

	out, err := r.Run(cmd.Context(), files, paths[0], extra)
	if err != nil {
		return err
	}

	table, err := useTable(cmd)
	if err != nil {
		return err
	}
	if table {
		renderOutcome(cmd.OutOrStdout(), out)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specvital/assert-lsp/pkg/runner"
)

var rootCmd = &cobra.Command{
	Use:           "assert-lsp",
	Short:         "Show test failures as editor diagnostics",
	Long:          `assert-lsp discovers tests in source files, runs them with the project's native test tool and reports failures as positional diagnostics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupLogging(cmd)
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		closeLogFile()
	},
}

func main() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(workspacesCmd)
	rootCmd.AddCommand(checkCmd)

	rootCmd.PersistentFlags().String("config", "", "configuration file (default: <project>/.assert-lsp.toml)")
	rootCmd.PersistentFlags().String("log-file", filepath.Join(runner.DefaultCacheDir(), "assert-lsp.log"), "file receiving JSON logs")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var logFile *os.File

func setupLogging(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return fmt.Errorf("failed to get log-file flag: %w", err)
	}
	levelName, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(levelName))); err != nil {
		return fmt.Errorf("invalid log level %q", levelName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	slog.Debug("log file opened", "path", path, "command", cmd.Name())
	return nil
}

func closeLogFile() {
	if logFile != nil {
		_ = logFile.Sync()
		_ = logFile.Close()
		logFile = nil
	}
}

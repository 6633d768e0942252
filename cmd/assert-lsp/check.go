package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/assert-lsp/pkg/config"
	"github.com/specvital/assert-lsp/pkg/domain"
	"github.com/specvital/assert-lsp/pkg/engine"
)

var checkCmd = &cobra.Command{
	Use:   "check [file|uri]",
	Short: "Diagnose the whole project, or a single file",
	Long: `check loads the project's configuration (.assert-lsp.toml, --init-options JSON,
or auto-detection), partitions the project into workspaces and runs their tests.
With a file argument (a path or a file:// URI) only that file is run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("project", ".", "project directory")
	checkCmd.Flags().String("init-options", "", "JSON configuration used when no config file exists")
}

func runCheck(cmd *cobra.Command, args []string) error {
	project, err := cmd.Flags().GetString("project")
	if err != nil {
		return fmt.Errorf("failed to get project flag: %w", err)
	}
	initOptions, err := cmd.Flags().GetString("init-options")
	if err != nil {
		return fmt.Errorf("failed to get init-options flag: %w", err)
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	dirs, err := absPaths([]string{project})
	if err != nil {
		return err
	}
	dir := dirs[0]

	cfg, err := loadConfig(dir, configPath, initOptions)
	if err != nil {
		return err
	}

	e := engine.New(dir, cfg, engine.WithLogger(slog.Default()))

	var result *engine.Result
	if len(args) == 1 {
		file, err := fileArg(args[0])
		if err != nil {
			return err
		}
		result, err = e.CheckFile(cmd.Context(), file)
		if err != nil {
			return err
		}
	} else {
		result, err = e.DiagnoseWorkspace(cmd.Context())
		if err != nil {
			return err
		}
	}

	for _, m := range result.Messages {
		fmt.Fprintln(os.Stderr, m.Text)
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// fileArg turns a path or file:// URI into an absolute path.
func fileArg(arg string) (string, error) {
	path := domain.URIToPath(arg)
	if path == "" {
		return "", fmt.Errorf("unsupported file argument: %s", arg)
	}
	files, err := absPaths([]string{path})
	if err != nil {
		return "", err
	}
	return files[0], nil
}

func loadConfig(dir, path, initOptions string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Resolve(dir, []byte(initOptions))
}

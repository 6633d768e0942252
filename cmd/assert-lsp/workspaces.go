package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specvital/assert-lsp/pkg/runner"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces --kind <kind> <file>...",
	Short: "Group files under the project roots that own them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWorkspaces,
}

func init() {
	workspacesCmd.Flags().String("kind", "", "test kind")
	workspacesCmd.Flags().Bool("table", false, "print a table instead of JSON")
	workspacesCmd.Flags().Int("max-depth", 0, "bound on the upward marker search (0=default)")
	_ = workspacesCmd.MarkFlagRequired("kind")
}

func runWorkspaces(cmd *cobra.Command, args []string) error {
	kind, err := cmd.Flags().GetString("kind")
	if err != nil {
		return fmt.Errorf("failed to get kind flag: %w", err)
	}
	depth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return fmt.Errorf("failed to get max-depth flag: %w", err)
	}

	r, err := runner.Get(kind, runner.WithMaxDepth(depth))
	if err != nil {
		return err
	}

	files, err := absPaths(args)
	if err != nil {
		return err
	}
	m := r.DetectWorkspaces(files)

	table, err := useTable(cmd)
	if err != nil {
		return err
	}
	if table {
		renderWorkspaces(cmd.OutOrStdout(), m)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), m)
}

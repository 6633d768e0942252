package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/specvital/assert-lsp/pkg/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// useTable reports whether output should be a table: when --table was
// given, or when it was left unset and the command's output is a terminal.
func useTable(cmd *cobra.Command) (bool, error) {
	if cmd.Flags().Changed("table") {
		return cmd.Flags().GetBool("table")
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false, nil
	}
	return term.IsTerminal(int(f.Fd())), nil
}

func renderWorkspaces(w io.Writer, m domain.WorkspaceMap) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Workspace", "File"})
	for _, root := range m.Roots() {
		for _, f := range m[root] {
			t.AppendRow(table.Row{root, f})
		}
	}
	t.AppendFooter(table.Row{"Roots", len(m)})
	t.Render()
}

func renderOutcome(w io.Writer, out *domain.RunOutcome) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"File", "Line", "Source", "Message"})
	for _, f := range out.Files {
		for _, d := range f.Diagnostics {
			t.AppendRow(table.Row{f.Path, d.Range.Start.Line + 1, d.Source, d.Message})
		}
	}
	t.AppendFooter(table.Row{"Failures", out.CountDiagnostics()})
	t.Render()
}

package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/turtacn/RingSense/internal/application/perception"
)

// newAnalyzeCommand builds the analyze subcommand: it perceives every
// molecule of the given SD files and prints the per-molecule ring and
// aromaticity summary.
func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.sdf> [more files...]",
		Short: "Perceive rings and aromaticity for every molecule in the given SD files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := GetCLIContext(cmd)

			for _, path := range args {
				report, err := ctx.Service.AnalyzeFile(path)
				if err != nil {
					return err
				}
				if err := printReport(cmd, ctx.OutputFormat, report); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, format string, report *perception.BatchReport) error {
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "# %s (batch %s)\n", report.Source, report.BatchId)
	fmt.Fprintln(w, "NAME\tATOMS\tBONDS\tRINGS\tSYSTEMS\tAROMATIC\tAROMATIC-SYSTEMS\tSTATUS")
	for _, m := range report.Molecules {
		status := "ok"
		if m.Error != "" {
			status = m.Error
		}
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("molecule-%d", m.MoleculeId)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			name, m.Atoms, m.Bonds, m.Rings, m.RingSystems,
			m.AromaticRings, m.AromaticRingSystems, status)
	}
	return w.Flush()
}

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/abhisek/shelfexam/internal/results"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Work with stored exam results",
}

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all results as CSV, one row per question",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := e.svc.Results(cmd.Context())
		if err != nil {
			return fmt.Errorf("list results: %w", err)
		}

		var w io.Writer = os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := results.WriteCSV(w, recs); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		if out != "" {
			fmt.Fprintf(os.Stderr, "Exported %d sessions to %s\n", len(recs), out)
		}
		return nil
	},
}

func init() {
	resultsExportCmd.Flags().StringP("out", "o", "", "Write CSV to this file instead of stdout")

	resultsCmd.AddCommand(resultsExportCmd)
}

package cmd

import (
	"github.com/abhisek/shelfexam/internal/app"
	"github.com/spf13/cobra"
)

// runApp builds the exam service and launches the TUI.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd, true)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(e.svc)
}

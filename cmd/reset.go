package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <passcode>",
	Short: "Discard a participant's stored session and release the passcode lock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Reset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Reset complete.")
		return nil
	},
}

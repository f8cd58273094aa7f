package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Manage recommended subjects for a participant",
}

var recommendAddCmd = &cobra.Command{
	Use:   "add <participant> <subject>",
	Short: "Recommend a subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.RecommendSubject(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Recommended %q for %s\n", args[1], args[0])
		return nil
	},
}

var recommendRemoveCmd = &cobra.Command{
	Use:   "remove <participant> <subject>",
	Short: "Remove a recommended subject",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		return e.svc.UnrecommendSubject(cmd.Context(), args[0], args[1])
	},
}

var recommendListCmd = &cobra.Command{
	Use:   "list <participant>",
	Short: "List recommended subjects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		tags, err := e.svc.RecommendedSubjects(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Println("No recommended subjects.")
			return nil
		}
		for _, t := range tags {
			fmt.Println(t)
		}
		return nil
	},
}

func init() {
	recommendCmd.AddCommand(recommendAddCmd)
	recommendCmd.AddCommand(recommendRemoveCmd)
	recommendCmd.AddCommand(recommendListCmd)
}

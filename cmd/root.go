package cmd

import (
	"github.com/abhisek/shelfexam/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shelfexam",
	Short: "Timed shelf-exam practice in the terminal",
	Long:  "shelfexam delivers short multiple-choice exam sessions from a CSV question bank, tracking usage, recommendations, and results per participant.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SHELFEXAM_DB env var)")
	rootCmd.PersistentFlags().String("questions", "", "Glob of question CSV files (overrides SHELFEXAM_QUESTIONS)")
	rootCmd.PersistentFlags().String("roster", "", "Path to the passcode roster TOML (overrides SHELFEXAM_ROSTER)")

	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

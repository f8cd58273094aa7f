package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <participant>",
	Short: "Show a participant's usage, recommendations, and results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		st, err := e.svc.Stats(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Participant:          %s\n", st.ParticipantID)
		fmt.Printf("Questions in window:  %d\n", st.UsedQuestions)
		fmt.Printf("Recommended subjects: %s\n", orNone(strings.Join(st.Subjects, ", ")))
		if st.SessionID != "" {
			state := "in progress"
			if st.SessionComplete {
				state = "complete"
			}
			fmt.Printf("Current session:      %s (%s, position %d, score %d)\n",
				st.SessionID, state, st.Position+1, st.Score)
		}

		fmt.Printf("\nPending recommendations (%d)\n", len(st.Pending))
		for _, p := range st.Pending {
			fmt.Printf("  question %-10s due %s\n", p.QuestionID, p.DueAt.Local().Format(time.DateTime))
		}

		fmt.Printf("\nResults (%d)\n", len(st.Results))
		if len(st.Results) > 0 {
			fmt.Printf("  %-19s  %-36s  %s\n", "Timestamp", "Session", "Score")
			fmt.Println("  " + strings.Repeat("─", 66))
		}
		for _, r := range st.Results {
			fmt.Printf("  %-19s  %-36s  %d/%d\n",
				r.Timestamp.Local().Format(time.DateTime), r.SessionID, r.Score, r.TotalQuestions)
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

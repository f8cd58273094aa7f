package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/shelfexam/internal/question"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Inspect the question bank",
}

var questionsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every question source and report per-subject counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		pool, err := question.Loader{Pattern: cfg.QuestionGlob, ImageDir: cfg.ImagesDir}.Load()
		if err != nil {
			return err
		}

		fmt.Printf("%-32s  %6s\n", "Subject", "Count")
		fmt.Println(strings.Repeat("─", 40))
		images := 0
		for _, id := range pool.IDs() {
			if rec, _ := pool.Get(id); rec.ImagePath != "" {
				images++
			}
		}
		for _, subj := range pool.Subjects() {
			fmt.Printf("%-32s  %6d\n", subj, len(pool.BySubject(subj)))
		}
		fmt.Printf("\n%d questions, %d with images\n", pool.Len(), images)
		return nil
	},
}

func init() {
	questionsCmd.AddCommand(questionsValidateCmd)
}

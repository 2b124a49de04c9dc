package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"moodiary/internal/config"
)

func newQuestionnaireCmd() *cobra.Command {
	var file string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Print the loaded stress check questionnaire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := config.LoadQuestionnaire(file)
			if err != nil {
				return err
			}
			printQuestionnaire(cmd.OutOrStdout(), q, verbose)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", os.Getenv("QUESTIONNAIRE_FILE"), "Questionnaire YAML (default: built-in)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every question")
	return cmd
}

func printQuestionnaire(w io.Writer, q *config.Questionnaire, verbose bool) {
	fmt.Fprintf(w, "%s (%s)\n", q.Title, q.ID)
	fmt.Fprintf(w, "questions: %d, group A: %d, group B: %d\n", q.TotalQuestions(), q.SplitIndex(), q.TotalQuestions()-q.SplitIndex())

	n := 0
	for i, p := range q.Pages {
		labels := make([]string, len(p.Options))
		for j, o := range p.Options {
			labels[j] = fmt.Sprintf("%s=%d", o.Label, o.Value)
		}
		fmt.Fprintf(w, "page %d: %s [%d questions] %s\n", i+1, p.Title, len(p.Questions), strings.Join(labels, ", "))
		for _, text := range p.Questions {
			n++
			if verbose {
				fmt.Fprintf(w, "  %2d. %s\n", n, text)
			}
		}
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moodiary/internal/config"
	"moodiary/internal/scoring"
)

type scoreFlags struct {
	split             int
	useQuestionnaire  bool
	questionnaireFile string
	asJSON            bool
}

func newScoreCmd() *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score [flags] [--] [answers]",
		Short: "Score a comma separated answer list, e.g. 1,2,,4 (empty items are unanswered)",
		Long: `Score a comma separated answer list, e.g. 1,2,,4. Empty items are unanswered.

A list starting with a negative value looks like a flag; put it after --:

  diaryctl score --split 1 -- -5,3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}
			return runScore(cmd.OutOrStdout(), raw, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.split, "split", 0, "Number of leading answers in group A")
	flags.BoolVar(&f.useQuestionnaire, "questionnaire", false, "Take the split from the questionnaire instead of --split")
	flags.StringVar(&f.questionnaireFile, "file", os.Getenv("QUESTIONNAIRE_FILE"), "Questionnaire YAML (default: built-in)")
	flags.BoolVar(&f.asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func runScore(w io.Writer, raw string, f *scoreFlags) error {
	answers, err := parseAnswers(raw)
	if err != nil {
		return err
	}

	split := f.split
	if f.useQuestionnaire {
		q, err := config.LoadQuestionnaire(f.questionnaireFile)
		if err != nil {
			return err
		}
		if err := q.CheckAnswers(answers); err != nil {
			return err
		}
		split = q.SplitIndex()
	}

	res := scoring.ComputeEvaluation(split, answers)
	if f.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "A=%d B=%d evaluation=%s\n", res.ScoreA, res.ScoreB, res.Evaluation)
	fmt.Fprintln(w, res.Evaluation.Guidance())
	return nil
}

// parseAnswers reads "1,2,,4". Blank items are unanswered.
func parseAnswers(raw string) ([]*int, error) {
	if strings.TrimSpace(raw) == "" {
		return []*int{}, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]*int, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not an integer", i+1, p)
		}
		out[i] = &v
	}
	return out, nil
}

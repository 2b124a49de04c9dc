// Package scoring classifies questionnaire answers into an evaluation label.
//
// Answers are split into two groups: group A holds the personal stress reaction
// items and group B the job demand and support items. Each group is summed
// independently and the pair of sums is mapped to one of three labels.
package scoring

// Evaluation is the outcome of a scored questionnaire.
type Evaluation string

const (
	EvaluationRequiresTreatment  Evaluation = "requires treatment"
	EvaluationNoAbnormality      Evaluation = "no abnormality"
	EvaluationRequiresMonitoring Evaluation = "requires monitoring"
)

func (e Evaluation) Valid() bool {
	switch e {
	case EvaluationRequiresTreatment, EvaluationNoAbnormality, EvaluationRequiresMonitoring:
		return true
	}
	return false
}

// Guidance returns the advice shown to the user alongside the label.
func (e Evaluation) Guidance() string {
	switch e {
	case EvaluationRequiresTreatment:
		return "Your stress level is high. Please consider talking to an occupational physician or a counselor soon."
	case EvaluationRequiresMonitoring:
		return "Some signs of stress were found. Keep an eye on how you feel and take time to rest."
	case EvaluationNoAbnormality:
		return "No signs of concerning stress were found. Keep up your current routine."
	default:
		return ""
	}
}

// Threshold bands for the two groups.
const (
	severeA   = 31
	moderateA = 23
	lowA      = 15
	highB     = 39
)

// Result is the score pair and its evaluation.
type Result struct {
	ScoreA     int        `json:"scoreA" bson:"scoreA"`
	ScoreB     int        `json:"scoreB" bson:"scoreB"`
	Evaluation Evaluation `json:"evaluation" bson:"evaluation"`
}

// ComputeEvaluation sums answers[:splitIndex] into ScoreA and the rest into
// ScoreB, treating nil as 0, and classifies the pair. splitIndex is clamped to
// [0, len(answers)]. answers is not modified.
func ComputeEvaluation(splitIndex int, answers []*int) Result {
	split := min(max(splitIndex, 0), len(answers))

	a := sum(answers[:split])
	b := sum(answers[split:])
	return Result{ScoreA: a, ScoreB: b, Evaluation: Classify(a, b)}
}

// Classify maps a score pair to an evaluation. Rules are checked in order and
// the first match wins.
func Classify(scoreA, scoreB int) Evaluation {
	switch {
	case (scoreA >= severeA && scoreB < highB) || (scoreA >= moderateA && scoreB >= highB):
		return EvaluationRequiresTreatment
	case scoreA <= lowA && scoreB < highB:
		return EvaluationNoAbnormality
	default:
		return EvaluationRequiresMonitoring
	}
}

func sum(answers []*int) int {
	total := 0
	for _, v := range answers {
		if v != nil {
			total += *v
		}
	}
	return total
}

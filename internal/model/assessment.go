package model

import (
	"time"

	"moodiary/internal/scoring"
)

// Assessment is one stored questionnaire submission, at most one per user and day
type Assessment struct {
	ID              string `json:"id" bson:"_id,omitempty"`
	UserID          string `json:"userId" bson:"userId"`
	Day             string `json:"day" bson:"day"`
	QuestionnaireID string `json:"questionnaireId" bson:"questionnaireId"`
	Answers         []*int `json:"answers" bson:"answers"`
	scoring.Result  `bson:",inline"`
	SubmittedAt     time.Time `json:"submittedAt" bson:"submittedAt"`
}

// AssessmentView adds the guidance text for the evaluation
type AssessmentView struct {
	*Assessment
	Guidance string `json:"guidance"`
}

// TodayStatus tells the client whether the questionnaire can be taken today
type TodayStatus struct {
	Day        string          `json:"day"`
	Submitted  bool            `json:"submitted"`
	Assessment *AssessmentView `json:"assessment,omitempty"`
}

func NewAssessmentView(a *Assessment) *AssessmentView {
	if a == nil {
		return nil
	}
	return &AssessmentView{Assessment: a, Guidance: a.Evaluation.Guidance()}
}

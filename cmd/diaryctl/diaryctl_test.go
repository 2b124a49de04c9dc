package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodiary/internal/config"
	"moodiary/internal/scoring"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers("1,2,,4")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 1, *got[0])
	assert.Equal(t, 2, *got[1])
	assert.Nil(t, got[2])
	assert.Equal(t, 4, *got[3])

	got, err = parseAnswers(" 3 , -1 ,")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, -1, *got[1])
	assert.Nil(t, got[2])

	got, err = parseAnswers("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseAnswers("1,x")
	assert.ErrorContains(t, err, "answer 2")
}

func TestRunScore_Text(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runScore(&out, "31,38", &scoreFlags{split: 1}))
	assert.Contains(t, out.String(), "A=31 B=38 evaluation=requires treatment")
	assert.Contains(t, out.String(), scoring.EvaluationRequiresTreatment.Guidance())
}

func TestRunScore_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runScore(&out, "1,,3,,5", &scoreFlags{split: 2, asJSON: true}))

	var res scoring.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, scoring.Result{ScoreA: 1, ScoreB: 8, Evaluation: scoring.EvaluationNoAbnormality}, res)
}

func TestRunScore_UsesQuestionnaireSplit(t *testing.T) {
	q, err := config.LoadQuestionnaire("")
	require.NoError(t, err)

	raw := "4"
	for i := 1; i < q.TotalQuestions(); i++ {
		raw += ",4"
	}

	var out bytes.Buffer
	require.NoError(t, runScore(&out, raw, &scoreFlags{split: 1, useQuestionnaire: true}))
	assert.Contains(t, out.String(), "A=44 B=48")

	err = runScore(&out, "4,4", &scoreFlags{useQuestionnaire: true})
	assert.ErrorIs(t, err, config.ErrAnswerCount)
}

func TestPrintQuestionnaire(t *testing.T) {
	q, err := config.LoadQuestionnaire("")
	require.NoError(t, err)

	var out bytes.Buffer
	printQuestionnaire(&out, q, true)
	assert.Contains(t, out.String(), "questions: 23, group A: 11, group B: 12")
	assert.Contains(t, out.String(), "page 2: About your job [6 questions]")
	assert.Contains(t, out.String(), "23. ")
}

func TestScoreCmd_NegativeLeadingAnswer(t *testing.T) {
	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		root := newRootCmd()
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		err := root.Execute()
		return out.String(), err
	}

	_, err := run("score", "--split", "1", "-5,3")
	assert.Error(t, err, "a leading negative value is read as a flag")

	out, err := run("score", "--split", "1", "--", "-5,3")
	require.NoError(t, err)
	assert.Contains(t, out, "A=-5 B=3 evaluation=no abnormality")
}

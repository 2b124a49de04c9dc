package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMoodStats(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	entries := []*DiaryEntry{
		{Day: "2024-06-02", Mood: MoodGood, CreatedAt: t0.Add(48 * time.Hour)},
		{Day: "2024-06-01", Mood: MoodAwful, CreatedAt: t0.Add(time.Hour)},
		{Day: "2024-06-01", Mood: MoodOkay, CreatedAt: t0},
	}

	s := NewMoodStats("2024-06", entries)
	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, map[Mood]int{MoodGood: 1, MoodAwful: 1, MoodOkay: 1}, s.Counts)
	assert.Equal(t, map[string]Mood{"2024-06-01": MoodAwful, "2024-06-02": MoodGood}, s.Days)
	assert.InDelta(t, 2.5, s.Average, 1e-9)
}

func TestNewMoodStats_AverageUsesLatestEntryPerDay(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	entries := []*DiaryEntry{
		{Day: "2024-06-01", Mood: MoodAwful, CreatedAt: t0},
		{Day: "2024-06-01", Mood: MoodGreat, CreatedAt: t0.Add(time.Hour)},
		{Day: "2024-06-02", Mood: MoodGreat, CreatedAt: t0.Add(24 * time.Hour)},
	}

	s := NewMoodStats("2024-06", entries)
	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, map[string]Mood{"2024-06-01": MoodGreat, "2024-06-02": MoodGreat}, s.Days)
	assert.InDelta(t, 5.0, s.Average, 1e-9)
}

func TestNewMoodStats_Empty(t *testing.T) {
	s := NewMoodStats("2024-02", nil)
	assert.Zero(t, s.Entries)
	assert.Zero(t, s.Average)
	assert.NotNil(t, s.Counts)
	assert.NotNil(t, s.Days)
}

func TestMoodScore(t *testing.T) {
	assert.Equal(t, 5, MoodGreat.Score())
	assert.Equal(t, 1, MoodAwful.Score())
	assert.Equal(t, 0, Mood("meh").Score())
	assert.False(t, Mood("meh").Valid())
}

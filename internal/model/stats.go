package model

import "time"

// moodScores ranks moods from awful (1) to great (5)
var moodScores = map[Mood]int{
	MoodAwful: 1,
	MoodBad:   2,
	MoodOkay:  3,
	MoodGood:  4,
	MoodGreat: 5,
}

// Score returns the 1-5 rank of the mood, 0 when unknown.
func (m Mood) Score() int {
	return moodScores[m]
}

// MoodStats summarizes one month of a user's diary for the calendar view
type MoodStats struct {
	Month   string       `json:"month"`
	Entries int          `json:"entries"`
	Counts  map[Mood]int `json:"counts"`
	// Days maps each day key to the mood of that day's latest entry.
	Days map[string]Mood `json:"days"`
	// Average is the mean Score over Days.
	Average float64 `json:"average"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewMoodStats folds entries into a month summary. Entries may come in any order.
func NewMoodStats(month string, entries []*DiaryEntry) *MoodStats {
	s := &MoodStats{
		Month:  month,
		Counts: make(map[Mood]int),
		Days:   make(map[string]Mood),
	}
	latest := make(map[string]time.Time)
	for _, e := range entries {
		s.Entries++
		s.Counts[e.Mood]++
		if t, ok := latest[e.Day]; !ok || e.CreatedAt.After(t) {
			latest[e.Day] = e.CreatedAt
			s.Days[e.Day] = e.Mood
		}
	}
	// Average rates days, not entries: only the latest mood of each day counts.
	if len(s.Days) > 0 {
		total := 0
		for _, m := range s.Days {
			total += m.Score()
		}
		s.Average = float64(total) / float64(len(s.Days))
	}
	return s
}

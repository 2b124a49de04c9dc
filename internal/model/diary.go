package model

import "time"

// Mood is the tag attached to a diary entry
type Mood string

const (
	MoodGreat Mood = "great"
	MoodGood  Mood = "good"
	MoodOkay  Mood = "okay"
	MoodBad   Mood = "bad"
	MoodAwful Mood = "awful"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodBad, MoodAwful:
		return true
	}
	return false
}

// DiaryEntry is one diary post. Day is the YYYY-MM-DD key in the service timezone.
type DiaryEntry struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"userId"`
	Day       string    `json:"day" bson:"day"`
	Text      string    `json:"text" bson:"text"`
	Mood      Mood      `json:"mood" bson:"mood"`
	PhotoKey  string    `json:"-" bson:"photoKey,omitempty"`
	Shared    bool      `json:"shared" bson:"shared"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DiaryEntryInput is the writable part of an entry
type DiaryEntryInput struct {
	Day      string `json:"day,omitempty"`
	Text     string `json:"text"`
	Mood     Mood   `json:"mood"`
	PhotoKey string `json:"photoKey,omitempty"`
	Shared   bool   `json:"shared"`
}

// DiaryEntryView is an entry as returned to clients
type DiaryEntryView struct {
	DiaryEntry
	Author      *PublicUser `json:"author,omitempty"`
	PhotoURL    string      `json:"photoUrl,omitempty"`
	RelativeDay string      `json:"relativeDay"`
}

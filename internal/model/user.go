package model

import "time"

// User is a diary account. PublicID is the short code friends search by.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	PublicID     string    `json:"publicId" bson:"publicId"`
	Email        string    `json:"email" bson:"email"`
	DisplayName  string    `json:"displayName" bson:"displayName"`
	Bio          string    `json:"bio" bson:"bio"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is what other users may see
type PublicUser struct {
	ID          string `json:"id"`
	PublicID    string `json:"publicId"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		PublicID:    u.PublicID,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
	}
}

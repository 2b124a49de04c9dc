package model

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest asks ToUserID to approve FromUserID as a friend
type FriendRequest struct {
	ID          string              `json:"id" bson:"_id,omitempty"`
	FromUserID  string              `json:"fromUserId" bson:"fromUserId"`
	ToUserID    string              `json:"toUserId" bson:"toUserId"`
	Status      FriendRequestStatus `json:"status" bson:"status"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
	RespondedAt *time.Time          `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
}

// Friendship is one direction of an approved friendship; both directions are stored.
type Friendship struct {
	UserID    string    `json:"userId" bson:"userId"`
	FriendID  string    `json:"friendId" bson:"friendId"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// FriendRequestView adds the other party's public profile
type FriendRequestView struct {
	FriendRequest
	From *PublicUser `json:"from,omitempty"`
	To   *PublicUser `json:"to,omitempty"`
}

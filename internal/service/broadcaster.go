package service

// Broadcaster pushes realtime events to connected users (avoids import cycle)
type Broadcaster interface {
	SendToUser(userID string, msgType string, payload interface{})
	SendToUsers(userIDs []string, msgType string, payload interface{})
}

// Realtime event types
const (
	EventDiaryEntryShared = "diary_entry_shared"
	EventFriendRequest    = "friend_request"
	EventFriendAccepted   = "friend_accepted"
)

type nopBroadcaster struct{}

func (nopBroadcaster) SendToUser(string, string, interface{})    {}
func (nopBroadcaster) SendToUsers([]string, string, interface{}) {}

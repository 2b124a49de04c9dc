package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"moodiary/internal/model"
)

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "connection closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func TestHub_SendToUser(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	phone := hub.NewConnection("alice")
	laptop := hub.NewConnection("alice")
	other := hub.NewConnection("bob")
	require.True(t, hub.Register(phone))
	require.True(t, hub.Register(laptop))
	require.True(t, hub.Register(other))

	hub.SendToUser("alice", "friend_request", map[string]string{"id": "r1"})

	for _, c := range []*Connection{phone, laptop} {
		msg := receive(t, c)
		assert.Equal(t, MsgFriendRequest, msg.Type)
		assert.JSONEq(t, `{"id":"r1"}`, string(msg.Payload))
	}
	select {
	case <-other.Send:
		t.Fatal("bob must not receive alice's message")
	default:
	}
}

func TestHub_SendToUsers(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	a := hub.NewConnection("a")
	b := hub.NewConnection("b")
	hub.Register(a)
	hub.Register(b)

	hub.SendToUsers([]string{"a", "b", "offline"}, "diary_entry_shared", map[string]int{"n": 1})
	assert.Equal(t, MsgDiaryEntryShared, receive(t, a).Type)
	assert.Equal(t, MsgDiaryEntryShared, receive(t, b).Type)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	c := hub.NewConnection("alice")
	hub.Register(c)
	hub.Unregister(c)

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Online("alice"))

	// A second unregister is a no-op.
	hub.Unregister(c)
}

func TestHub_CloseStopsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zap.NewNop())

	c := hub.NewConnection("alice")
	hub.Register(c)
	hub.Close()
	hub.Close()

	_, ok := <-c.Send
	assert.False(t, ok)
	assert.False(t, hub.Register(hub.NewConnection("bob")))

	// Sends after close return instead of blocking.
	hub.SendToUser("alice", "friend_request", nil)
}

type staticTokens map[string]string

func (s staticTokens) ValidateToken(ctx context.Context, token string) (*model.UserClaims, error) {
	if id, ok := s[token]; ok {
		return &model.UserClaims{UserID: id}, nil
	}
	return nil, errors.New("bad token")
}

func TestFeedWS(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub := NewHub(zap.NewNop())
	defer hub.Close()

	h := NewHandler(hub, staticTokens{"tok": "alice"}, nil, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(h.FeedWS))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	client, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=tok", nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Online("alice") == 1 }, time.Second, 10*time.Millisecond)
	hub.SendToUser("alice", "friend_accepted", map[string]string{"id": "r1"})

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, client.ReadJSON(&msg))
	assert.Equal(t, MsgFriendAccepted, msg.Type)
	assert.JSONEq(t, `{"id":"r1"}`, string(msg.Payload))

	client.Close()
	require.Eventually(t, func() bool { return hub.Online("alice") == 0 }, time.Second, 10*time.Millisecond)
}

func TestCheckOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/ws/feed", nil)
	req.Header.Set("Origin", "https://app.example.com")

	assert.True(t, checkOrigin(nil)(req))
	assert.True(t, checkOrigin([]string{"*"})(req))
	assert.True(t, checkOrigin([]string{"https://app.example.com"})(req))
	assert.False(t, checkOrigin([]string{"https://other.example.com"})(req))
}

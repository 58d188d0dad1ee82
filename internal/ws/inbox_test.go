package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-client/internal/models"
	"chat-client/internal/roomlist"
)

func TestInboxFeedsAggregator(t *testing.T) {
	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/ws/user/"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conns <- conn
	}))
	defer srv.Close()

	rooms := roomlist.NewAggregator()
	rooms.Seed([]models.Room{{ID: 4, Name: "general"}})

	inbox := NewInbox(Config{
		WSBaseURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Token:     "test-token",
	}, rooms)

	done := make(chan error, 1)
	go func() { done <- inbox.Listen(context.Background()) }()

	conn := <-conns
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "unread_update", "room_id": 4,
		"last_message": "ping", "has_file": false,
	}))
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "message", "id": 9, "message": "ignored on this channel",
		"user": map[string]any{"id": 2, "username": "bob"},
	}))

	require.Eventually(t, func() bool {
		room, ok := rooms.Room(4)
		return ok && room.UnreadCount == 1
	}, 2*time.Second, 10*time.Millisecond)

	room, _ := rooms.Room(4)
	assert.Equal(t, "ping", room.LastMessage.Message)

	inbox.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("inbox listener did not stop after Close")
	}
}

func TestInboxStopsOnContextCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Hold the connection open until the client severs it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	rooms := roomlist.NewAggregator()
	inbox := NewInbox(Config{
		WSBaseURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Token:     "test-token",
	}, rooms)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- inbox.Listen(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("inbox listener did not stop on cancel")
	}
}

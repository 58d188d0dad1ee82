package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"chat-client/internal/models"
	"chat-client/internal/observability"
	"chat-client/internal/roomlist"
)

// Inbox listens on the per-user channel that carries unread notifications
// for every room the user belongs to, open or not. It feeds the room-list
// aggregator only; message bodies still travel on the room channel.
type Inbox struct {
	cfg    Config
	rooms  *roomlist.Aggregator
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewInbox constructs an Inbox bound to the aggregator.
func NewInbox(cfg Config, rooms *roomlist.Aggregator) *Inbox {
	return &Inbox{cfg: cfg, rooms: rooms, dialer: websocket.DefaultDialer}
}

// Listen dials the user channel and consumes it until the connection drops,
// the context is cancelled or Close is called. Callers run it in a
// goroutine for the life of the client.
func (i *Inbox) Listen(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/ws/user/?token=%s",
		strings.TrimSuffix(i.cfg.WSBaseURL, "/"), url.QueryEscape(i.cfg.Token))
	conn, _, err := i.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		observability.IncWSEvent("inbox", "dial_error")
		return fmt.Errorf("open inbox: %w", err)
	}

	i.mu.Lock()
	i.conn = conn
	i.mu.Unlock()

	observability.IncWSActive("inbox")
	observability.IncWSEvent("inbox", "connect")
	defer func() {
		i.Close()
		observability.DecWSActive("inbox")
		observability.IncWSEvent("inbox", "disconnect")
	}()

	stop := context.AfterFunc(ctx, func() { i.Close() })
	defer stop()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("inbox read: %w", err)
		}

		ev, err := models.DecodeFrame(raw)
		if err != nil {
			if !errors.Is(err, models.ErrUnknownFrame) {
				log.Printf("drop malformed inbox frame: %v", err)
			}
			continue
		}
		if unread, ok := ev.(models.UnreadEvent); ok {
			observability.IncWSFrame("inbox", models.FrameUnread)
			i.rooms.ApplyUnread(unread)
		}
	}
}

// Close severs the user channel. Idempotent.
func (i *Inbox) Close() {
	i.mu.Lock()
	conn := i.conn
	i.conn = nil
	i.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

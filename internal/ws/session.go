package ws

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"chat-client/internal/api"
	"chat-client/internal/models"
	"chat-client/internal/observability"
	"chat-client/internal/presence"
	"chat-client/internal/roomlist"
	"chat-client/internal/store"
	"chat-client/internal/telemetry"
)

// Config fixes the endpoints and credential a Session uses. Nothing is read
// from globals: the embedding application passes one Config at construction.
type Config struct {
	WSBaseURL    string
	APIBaseURL   string
	MediaBaseURL string
	Token        string
}

// Session owns the persistent channel of the currently open room: it opens
// the socket, seeds history, dispatches inbound frames to the store,
// presence, typing and room-list components, and transmits outbound frames.
// At most one channel is live at a time; opening a room tears down the
// previous channel before any new frame can be dispatched.
type Session struct {
	cfg      Config
	api      api.RoomAPI
	store    *store.MessageStore
	presence *presence.Tracker
	typing   *presence.TypingIndicator
	rooms    *roomlist.Aggregator
	emitter  *telemetry.SyncEmitter
	self     models.User

	dialer      *websocket.Dialer
	typingLimit *rate.Limiter

	mu      sync.Mutex
	conn    *websocket.Conn
	roomID  int
	seeded  bool
	pending [][]byte

	writeMu sync.Mutex
}

// NewSession constructs a Session around the given collaborators.
func NewSession(cfg Config, roomAPI api.RoomAPI, messages *store.MessageStore, tracker *presence.Tracker, typing *presence.TypingIndicator, rooms *roomlist.Aggregator, self models.User, emitter *telemetry.SyncEmitter) *Session {
	return &Session{
		cfg:         cfg,
		api:         roomAPI,
		store:       messages,
		presence:    tracker,
		typing:      typing,
		rooms:       rooms,
		emitter:     emitter,
		self:        self,
		dialer:      websocket.DefaultDialer,
		typingLimit: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// Open switches the session to room: the previous channel is closed, the
// per-room components are reset, the channel is established and history is
// fetched to seed the store. Frames that arrive while the seed fetch is in
// flight are buffered and replayed through the normal dispatch path once
// the seed lands, so nothing is dropped for racing the fetch.
func (s *Session) Open(ctx context.Context, room models.Room) error {
	s.Close()

	s.presence.Reset()
	s.typing.Reset()

	ctx, span := otel.Tracer("chat-client/ws").Start(ctx, "ws.open")
	defer span.End()

	endpoint := fmt.Sprintf("%s/ws/chat/%d/?token=%s",
		strings.TrimSuffix(s.cfg.WSBaseURL, "/"), room.ID, url.QueryEscape(s.cfg.Token))
	conn, _, err := s.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		observability.IncWSEvent("room", "dial_error")
		return fmt.Errorf("open room %d: %w", room.ID, err)
	}

	// Only a live channel earns the open mark: a failed dial must not leave
	// the aggregator suppressing unread counts for a room nobody is reading.
	s.rooms.Upsert(room)
	s.rooms.RoomOpened(room.ID)

	s.mu.Lock()
	s.conn = conn
	s.roomID = room.ID
	s.seeded = false
	s.pending = nil
	s.mu.Unlock()

	observability.IncWSActive("room")
	observability.IncWSEvent("room", "connect")
	s.emitter.Emit(ctx, "room_opened", room.ID, "")

	go s.readLoop(conn, room.ID)

	detail, err := s.api.GetRoom(ctx, room.ID)
	if err != nil {
		s.Close()
		return fmt.Errorf("seed room %d: %w", room.ID, err)
	}
	for i := range detail.Messages {
		detail.Messages[i].File = s.resolveFile(detail.Messages[i].File)
	}
	s.store.Seed(detail.Messages)

	// Replay buffered frames in arrival order before going live. The read
	// loop blocks on the same lock, so no live frame can overtake a
	// buffered one.
	s.mu.Lock()
	if s.conn == conn {
		for _, raw := range s.pending {
			s.dispatch(raw)
		}
		s.pending = nil
		s.seeded = true
	}
	s.mu.Unlock()
	return nil
}

// RoomID reports the open room, 0 when none.
func (s *Session) RoomID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Close terminates the channel. Idempotent and safe with no channel open.
func (s *Session) Close() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.roomID = 0
	s.seeded = false
	s.pending = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	s.rooms.RoomClosed()
}

func (s *Session) readLoop(conn *websocket.Conn, roomID int) {
	defer func() {
		observability.DecWSActive("room")
		observability.IncWSEvent("room", "disconnect")
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			current := s.conn == conn
			s.mu.Unlock()
			if current && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("room", "error")
				s.emitter.Emit(context.Background(), "socket_dropped", roomID, err.Error())
			}
			return
		}

		s.mu.Lock()
		if s.conn != conn {
			// Room switched under us: this channel's frames are dead.
			s.mu.Unlock()
			return
		}
		if !s.seeded {
			s.pending = append(s.pending, raw)
			s.mu.Unlock()
			continue
		}
		s.dispatch(raw)
		s.mu.Unlock()
	}
}

// dispatch routes one inbound frame. Unknown frame types are skipped so
// newer servers remain compatible; malformed frames are logged and dropped.
// Callers hold s.mu, which serializes dispatch with seeding and teardown.
func (s *Session) dispatch(raw []byte) {
	ev, err := models.DecodeFrame(raw)
	if err != nil {
		if !errors.Is(err, models.ErrUnknownFrame) {
			log.Printf("drop malformed frame: %v", err)
		}
		return
	}

	switch ev := ev.(type) {
	case models.MessageEvent:
		observability.IncWSFrame("room", models.FrameMessage)
		msg := ev.Message
		msg.File = s.resolveFile(msg.File)
		if msg.ClientID != "" {
			s.store.Confirm(msg.ClientID, msg)
		} else {
			s.store.UpsertByServerID(msg)
		}
		s.rooms.ApplyMessage(msg)

	case models.EditEvent:
		observability.IncWSFrame("room", models.FrameEdit)
		s.store.ApplyEdit(ev.ID, ev.Body)

	case models.DeleteEvent:
		observability.IncWSFrame("room", models.FrameDelete)
		s.store.ApplyDelete(ev.ID)

	case models.TypingEvent:
		observability.IncWSFrame("room", models.FrameTyping)
		s.typing.Bump(ev.User.Username)

	case models.StatusEvent:
		observability.IncWSFrame("room", models.FrameStatus)
		s.presence.Apply(ev.Status, ev.User)

	case models.UnreadEvent:
		observability.IncWSFrame("room", models.FrameUnread)
		s.rooms.ApplyUnread(ev)
	}
}

// Send transmits one outbound frame. Fire-and-forget: no acknowledgment is
// awaited, confirmation arrives asynchronously as an inbound frame.
func (s *Session) Send(frame models.OutboundFrame) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return errors.New("no open room channel")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return conn.WriteJSON(frame)
}

// SendMessage inserts an optimistic entry and transmits the send frame.
// The returned message carries the provisional identity until the echo
// confirms it.
func (s *Session) SendMessage(body string, replyTo int) (models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return models.Message{}, errors.New("empty message")
	}

	clientID := newClientID()
	draft := models.Message{
		User:      s.self,
		UserID:    s.self.ID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	inserted := s.store.InsertOptimistic(clientID, draft)

	err := s.Send(models.OutboundFrame{
		Type:     models.FrameMessage,
		Message:  body,
		ReplyTo:  replyTo,
		ClientID: clientID,
	})
	return inserted, err
}

// SendTyping transmits a typing frame, throttled to one per window: denser
// sends add nothing the decay timer would notice. Surplus calls are
// dropped, never queued.
func (s *Session) SendTyping() error {
	if !s.typingLimit.Allow() {
		return nil
	}
	return s.Send(models.OutboundFrame{Type: models.FrameTyping})
}

// SendEdit transmits an edit frame; the rewrite lands locally when the
// server broadcasts the edit event back.
func (s *Session) SendEdit(messageID int, body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return errors.New("empty message")
	}
	return s.Send(models.OutboundFrame{Type: models.FrameEdit, ID: messageID, Message: body})
}

// DeleteMessage removes the message locally at once, deletes it over REST
// and announces the deletion on the channel.
func (s *Session) DeleteMessage(ctx context.Context, messageID int) error {
	s.store.ApplyDelete(messageID)
	if err := s.api.DeleteMessage(ctx, messageID); err != nil {
		return err
	}
	return s.Send(models.OutboundFrame{Type: models.FrameDelete, ID: messageID})
}

func (s *Session) resolveFile(ref string) string {
	return models.ResolveFileRef(ref, s.cfg.APIBaseURL, s.cfg.MediaBaseURL)
}

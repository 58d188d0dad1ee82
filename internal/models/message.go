package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// ReplyRef is a shallow snapshot of a replied-to message, not a live
// reference: the author and body are frozen at reply time.
type ReplyRef struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Message is one entry in a room's message sequence. A message is either
// provisional (no server id yet, identified by its correlation ClientID) or
// confirmed (ID assigned by the server). Body and File are each optional but
// never both absent on a stored message.
type Message struct {
	ID        int       `json:"id,omitempty"`
	RoomID    int       `json:"room_id,omitempty"`
	User      User      `json:"user"`
	UserID    int       `json:"user_id"`
	Body      string    `json:"message"`
	File      string    `json:"file,omitempty"`
	ReplyTo   *ReplyRef `json:"reply_to,omitempty"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"created_at"`
	ClientID  string    `json:"client_id,omitempty"`
}

// Provisional reports whether the message is still awaiting server
// confirmation.
func (m Message) Provisional() bool {
	return m.ID == 0 && m.ClientID != ""
}

// LocalID returns the identity under which the message is rendered: the
// server id once confirmed, a tmp-<correlation id> handle before that.
func (m Message) LocalID() string {
	if m.ID != 0 {
		return strconv.Itoa(m.ID)
	}
	return "tmp-" + m.ClientID
}

// UnmarshalJSON tolerates the two author shapes the backend emits: room
// history and REST responses carry a user object, socket echoes may carry a
// bare username string next to user_id.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		*alias
		User   json.RawMessage `json:"user"`
		RoomID json.RawMessage `json:"room_id"`
		Room   json.RawMessage `json:"room"`
		Reply  json.RawMessage `json:"reply_to"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.RoomID = decodeRoomID(aux.RoomID)
	if m.RoomID == 0 {
		m.RoomID = decodeRoomID(aux.Room)
	}
	m.User = decodeAuthor(aux.User, m.UserID)
	m.ReplyTo = decodeReply(aux.Reply)
	return nil
}

// decodeRoomID tolerates the two room id shapes the backend emits: REST
// payloads serialize a number, the socket broadcast passes the URL kwarg
// through as a string.
func decodeRoomID(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

func decodeAuthor(raw json.RawMessage, userID int) User {
	if len(raw) == 0 || string(raw) == "null" {
		return UnknownUser(userID)
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return User{ID: userID, Username: name}
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return UnknownUser(userID)
	}
	return u
}

func decodeReply(raw json.RawMessage) *ReplyRef {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	aux := struct {
		ID      int             `json:"id"`
		Message string          `json:"message"`
		User    json.RawMessage `json:"user"`
	}{}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return nil
	}
	return &ReplyRef{ID: aux.ID, Message: aux.Message, User: decodeAuthor(aux.User, 0)}
}

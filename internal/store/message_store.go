package store

import (
	"sync"

	"chat-client/internal/models"
)

// MessageStore owns the ordered message sequence of the currently open
// room. The sequence keeps the insertion order actually observed by the
// client; confirmations replace in place and nothing is ever re-sorted, so
// a confirmed message never jumps visually.
type MessageStore struct {
	mu       sync.Mutex
	messages []models.Message
	registry *Registry
}

// NewMessageStore constructs a MessageStore backed by the given registry.
func NewMessageStore(registry *Registry) *MessageStore {
	return &MessageStore{registry: registry}
}

// Registry exposes the correlation registry shared with senders.
func (s *MessageStore) Registry() *Registry {
	return s.registry
}

// Seed replaces the sequence wholesale with server history (ascending by
// creation time) and resets in-flight correlations. Authors the server
// omitted are normalized to the Unknown placeholder.
func (s *MessageStore) Seed(history []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make([]models.Message, 0, len(history))
	for _, m := range history {
		if m.User.Username == "" {
			m.User = models.UnknownUser(m.UserID)
		}
		if m.ReplyTo != nil && m.ReplyTo.User.Username == "" {
			m.ReplyTo.User = models.UnknownUser(m.ReplyTo.User.ID)
		}
		s.messages = append(s.messages, m)
	}
	s.registry.Reset()
}

// InsertOptimistic appends a provisional message for an outgoing send and
// tracks its correlation id.
func (s *MessageStore) InsertOptimistic(clientID string, draft models.Message) models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = 0
	draft.ClientID = clientID
	s.messages = append(s.messages, draft)
	s.registry.Track(clientID, draft.LocalID())
	return draft
}

// Confirm replaces the provisional entry for clientID in place with the
// server-confirmed message. A confirmation for an unregistered correlation
// id (duplicate delivery, or an echo that raced a reset) degrades to
// UpsertByServerID.
func (s *MessageStore) Confirm(clientID string, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry.Resolve(clientID); !ok {
		s.upsertLocked(msg)
		return
	}
	for i := range s.messages {
		if s.messages[i].Provisional() && s.messages[i].ClientID == clientID {
			msg.ClientID = ""
			s.messages[i] = msg
			s.registry.Clear(clientID)
			return
		}
	}
	// Registered but the provisional entry is gone (seed replaced it).
	s.registry.Clear(clientID)
	s.upsertLocked(msg)
}

// UpsertByServerID appends a server message unless one with the same id is
// already present; duplicate deliveries are absorbed.
func (s *MessageStore) UpsertByServerID(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(msg)
}

func (s *MessageStore) upsertLocked(msg models.Message) {
	for i := range s.messages {
		if msg.ID != 0 && s.messages[i].ID == msg.ID {
			return
		}
	}
	msg.ClientID = ""
	s.messages = append(s.messages, msg)
}

// ApplyEdit rewrites the body of the message with the given server id and
// marks it edited. A miss is a silent no-op: the message may have scrolled
// out of the local window.
func (s *MessageStore) ApplyEdit(id int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages[i].Body = body
			s.messages[i].Edited = true
			return
		}
	}
}

// ApplyDelete removes the message with the given server id; a miss is a
// silent no-op.
func (s *MessageStore) ApplyDelete(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// Messages returns a snapshot of the sequence in display order.
func (s *MessageStore) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len reports the sequence length.
func (s *MessageStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

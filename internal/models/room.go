package models

import "time"

// LastMessage is the sidebar preview of a room's most recent message.
type LastMessage struct {
	ID        int       `json:"id,omitempty"`
	Message   string    `json:"message"`
	File      string    `json:"file,omitempty"`
	User      string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Preview renders the one-line summary: body text, a file marker when only
// an attachment exists, or empty.
func (l *LastMessage) Preview() string {
	if l == nil {
		return ""
	}
	if l.Message != "" {
		return l.Message
	}
	if l.File != "" {
		return "\U0001F4CE File"
	}
	return ""
}

// Room is a chat room as known to the client. Rooms are created by a list
// fetch or a private-chat start and are never deleted locally.
type Room struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	IsPrivate   bool         `json:"is_private"`
	Members     []User       `json:"members"`
	LastMessage *LastMessage `json:"last_message"`
	UnreadCount int          `json:"unread_count"`
}

// Title returns the display name: private rooms are titled after the member
// who is not the viewer.
func (r Room) Title(selfID int) string {
	if r.IsPrivate {
		for _, m := range r.Members {
			if m.ID != selfID {
				return m.Username
			}
		}
	}
	return r.Name
}

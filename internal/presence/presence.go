package presence

import (
	"sync"

	"chat-client/internal/models"
)

// Tracker holds the set of users currently online in the open room. State
// is purely event-driven: it grows and shrinks with status frames and is
// emptied on room switch.
type Tracker struct {
	mu     sync.Mutex
	online []models.User
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply merges one status event. An online status upserts the user by
// identity, last write wins; offline removes them.
func (t *Tracker) Apply(status string, user models.User) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if status == "online" {
		for i := range t.online {
			if t.online[i].ID == user.ID {
				t.online[i] = user
				return
			}
		}
		t.online = append(t.online, user)
		return
	}
	for i := range t.online {
		if t.online[i].ID == user.ID {
			t.online = append(t.online[:i], t.online[i+1:]...)
			return
		}
	}
}

// Online returns a snapshot of the present users.
func (t *Tracker) Online() []models.User {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.User, len(t.online))
	copy(out, t.online)
	return out
}

// Reset empties the set for a freshly opened room.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.online = nil
}

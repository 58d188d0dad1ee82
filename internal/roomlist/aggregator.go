package roomlist

import (
	"sync"

	"chat-client/internal/models"
)

// Aggregator maintains per-room summaries (last-message preview, unread
// count) across every room the client knows, while only one room is open at
// a time. It promises correct summary fields, not any display ordering.
type Aggregator struct {
	mu     sync.Mutex
	rooms  []models.Room
	index  map[int]int
	openID int
}

// NewAggregator constructs an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[int]int)}
}

// Seed replaces the known rooms with a fresh list fetch.
func (a *Aggregator) Seed(rooms []models.Room) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rooms = make([]models.Room, 0, len(rooms))
	a.index = make(map[int]int, len(rooms))
	for _, r := range rooms {
		if _, ok := a.index[r.ID]; ok {
			continue
		}
		a.index[r.ID] = len(a.rooms)
		a.rooms = append(a.rooms, r)
	}
}

// Upsert inserts a room if absent by id. Starting a private chat that
// already exists must not create a duplicate entry, so an existing room is
// left untouched.
func (a *Aggregator) Upsert(room models.Room) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.index[room.ID]; ok {
		return
	}
	a.index[room.ID] = len(a.rooms)
	a.rooms = append(a.rooms, room)
}

// RoomOpened marks roomID as the open room and zeroes its unread count.
func (a *Aggregator) RoomOpened(roomID int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.openID = roomID
	if i, ok := a.index[roomID]; ok {
		a.rooms[i].UnreadCount = 0
	}
}

// RoomClosed clears the open-room mark (back to the list view).
func (a *Aggregator) RoomClosed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.openID = 0
}

// OpenRoomID returns the id of the open room, 0 when none.
func (a *Aggregator) OpenRoomID() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.openID
}

// ApplyMessage folds a live message event into the target room's summary.
// The open room is being read, so its unread count is pinned to zero; any
// other room gains one unread per event.
func (a *Aggregator) ApplyMessage(msg models.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i, ok := a.index[msg.RoomID]
	if !ok {
		return
	}
	a.rooms[i].LastMessage = &models.LastMessage{
		ID:        msg.ID,
		Message:   msg.Body,
		File:      msg.File,
		User:      msg.User.Username,
		CreatedAt: msg.CreatedAt,
	}
	if msg.RoomID == a.openID {
		a.rooms[i].UnreadCount = 0
	} else {
		a.rooms[i].UnreadCount++
	}
}

// ApplyUnread folds an inbox-side unread notification. The open room stays
// at zero even if a stale notification for it arrives after a switch.
func (a *Aggregator) ApplyUnread(ev models.UnreadEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i, ok := a.index[ev.RoomID]
	if !ok {
		return
	}
	last := &models.LastMessage{Message: ev.Preview}
	if ev.HasFile {
		last.File = "attachment"
	}
	a.rooms[i].LastMessage = last
	if ev.RoomID == a.openID {
		a.rooms[i].UnreadCount = 0
	} else {
		a.rooms[i].UnreadCount++
	}
}

// Room returns the summary for one room.
func (a *Aggregator) Room(roomID int) (models.Room, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i, ok := a.index[roomID]; ok {
		return a.rooms[i], true
	}
	return models.Room{}, false
}

// Rooms returns a snapshot of all known rooms in insertion order.
func (a *Aggregator) Rooms() []models.Room {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Room, len(a.rooms))
	copy(out, a.rooms)
	return out
}

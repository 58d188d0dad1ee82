package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-client/internal/models"
)

func TestTrackerOnlineOffline(t *testing.T) {
	tr := NewTracker()
	ana := models.User{ID: 1, Username: "ana"}
	bob := models.User{ID: 2, Username: "bob"}

	tr.Apply("online", ana)
	tr.Apply("online", bob)
	assert.Equal(t, []models.User{ana, bob}, tr.Online())

	tr.Apply("offline", ana)
	assert.Equal(t, []models.User{bob}, tr.Online())

	// Offline for an absent user is harmless.
	tr.Apply("offline", ana)
	assert.Equal(t, []models.User{bob}, tr.Online())
}

func TestTrackerDuplicateOnlineLastWriteWins(t *testing.T) {
	tr := NewTracker()
	tr.Apply("online", models.User{ID: 1, Username: "ana"})
	tr.Apply("online", models.User{ID: 1, Username: "ana2"})

	online := tr.Online()
	require.Len(t, online, 1)
	assert.Equal(t, "ana2", online[0].Username)
}

func TestTrackerLastEventWinsOverSequences(t *testing.T) {
	tr := NewTracker()
	type ev struct {
		status string
		id     int
	}
	seq := []ev{
		{"online", 1}, {"online", 2}, {"offline", 1},
		{"online", 3}, {"offline", 2}, {"online", 1}, {"offline", 3},
	}
	last := map[int]string{}
	for _, e := range seq {
		u := models.User{ID: e.id}
		tr.Apply(e.status, u)
		last[e.id] = e.status
	}

	got := map[int]bool{}
	for _, u := range tr.Online() {
		got[u.ID] = true
	}
	for id, status := range last {
		assert.Equal(t, status == "online", got[id], "user %d", id)
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Apply("online", models.User{ID: 1})
	tr.Reset()
	assert.Empty(t, tr.Online())
}

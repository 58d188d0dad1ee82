package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-client/internal/models"
)

func newStore() *MessageStore {
	return NewMessageStore(NewRegistry())
}

func serverMsg(id int, body string) models.Message {
	return models.Message{
		ID:        id,
		User:      models.User{ID: 2, Username: "ana"},
		UserID:    2,
		Body:      body,
		CreatedAt: time.Now(),
	}
}

func TestSeedNormalizesMissingAuthors(t *testing.T) {
	s := newStore()
	s.Seed([]models.Message{
		{ID: 1, UserID: 4, Body: "a"},
		{ID: 2, User: models.User{ID: 5, Username: "bob"}, Body: "b",
			ReplyTo: &models.ReplyRef{ID: 1, Message: "a"}},
	})

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.UnknownUser(4), msgs[0].User)
	assert.Equal(t, "bob", msgs[1].User.Username)
	assert.Equal(t, "Unknown", msgs[1].ReplyTo.User.Username)
}

func TestSeedReplacesWholesaleAndResetsRegistry(t *testing.T) {
	s := newStore()
	s.InsertOptimistic("c1", models.Message{Body: "draft"})
	require.Equal(t, 1, s.Registry().Len())

	s.Seed([]models.Message{serverMsg(1, "a")})
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, s.Registry().Len())
}

func TestConfirmReplacesInPlace(t *testing.T) {
	s := newStore()
	s.Seed([]models.Message{serverMsg(1, "a"), serverMsg(2, "b")})
	s.InsertOptimistic("c1", models.Message{Body: "hi", UserID: 9})
	s.UpsertByServerID(serverMsg(3, "c"))

	s.Confirm("c1", serverMsg(42, "hi"))

	msgs := s.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, []int{1, 2, 42, 3}, []int{msgs[0].ID, msgs[1].ID, msgs[2].ID, msgs[3].ID})
	assert.False(t, msgs[2].Provisional())
	assert.Equal(t, 0, s.Registry().Len())
}

func TestConfirmDeliveredTwiceKeepsOneEntry(t *testing.T) {
	s := newStore()
	s.InsertOptimistic("c1", models.Message{Body: "hi"})

	echo := serverMsg(42, "hi")
	echo.ClientID = "c1"
	s.Confirm("c1", echo)
	s.Confirm("c1", echo)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 42, msgs[0].ID)
	assert.Equal(t, "hi", msgs[0].Body)
	for _, m := range msgs {
		assert.NotEqual(t, "tmp-c1", m.LocalID())
	}
}

func TestConfirmUnregisteredFallsBackToUpsert(t *testing.T) {
	s := newStore()
	s.Confirm("never-seen", serverMsg(7, "x"))
	require.Equal(t, 1, s.Len())

	// Duplicate server id is absorbed.
	s.Confirm("never-seen", serverMsg(7, "x"))
	assert.Equal(t, 1, s.Len())
}

func TestUpsertByServerIDIsIdempotent(t *testing.T) {
	s := newStore()
	s.UpsertByServerID(serverMsg(5, "a"))
	s.UpsertByServerID(serverMsg(5, "a"))
	s.UpsertByServerID(serverMsg(6, "b"))
	assert.Equal(t, 2, s.Len())
}

func TestApplyEdit(t *testing.T) {
	s := newStore()
	s.Seed([]models.Message{serverMsg(1, "old")})

	s.ApplyEdit(1, "new text")
	msgs := s.Messages()
	assert.Equal(t, "new text", msgs[0].Body)
	assert.True(t, msgs[0].Edited)
}

func TestApplyEditMissingIDIsNoOp(t *testing.T) {
	s := newStore()
	s.Seed([]models.Message{serverMsg(1, "a")})

	s.ApplyEdit(999, "new text")

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "a", msgs[0].Body)
	assert.False(t, msgs[0].Edited)
}

func TestApplyDelete(t *testing.T) {
	s := newStore()
	s.Seed([]models.Message{serverMsg(1, "a"), serverMsg(2, "b")})

	s.ApplyDelete(1)
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 2, msgs[0].ID)

	// Missing id is silent.
	s.ApplyDelete(999)
	assert.Equal(t, 1, s.Len())
}

func TestConfirmPreservesPositionAmongMany(t *testing.T) {
	s := newStore()
	var seeded []models.Message
	for i := 1; i <= 5; i++ {
		seeded = append(seeded, serverMsg(i, fmt.Sprintf("m%d", i)))
	}
	s.Seed(seeded)
	s.InsertOptimistic("c9", models.Message{Body: "mine"})
	s.UpsertByServerID(serverMsg(6, "late"))

	before := s.Messages()
	s.Confirm("c9", serverMsg(100, "mine"))
	after := s.Messages()

	require.Equal(t, len(before), len(after))
	for i := range after {
		if i == 5 {
			assert.Equal(t, 100, after[i].ID)
			continue
		}
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

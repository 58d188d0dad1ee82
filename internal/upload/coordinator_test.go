package upload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-client/internal/mocks"
	"chat-client/internal/models"
	"chat-client/internal/store"
	"chat-client/internal/telemetry"
)

func newCoordinator(t *testing.T) (*Coordinator, *mocks.RoomAPIMock, *mocks.FrameSenderMock, *store.MessageStore) {
	t.Helper()
	roomAPI := new(mocks.RoomAPIMock)
	sender := new(mocks.FrameSenderMock)
	messages := store.NewMessageStore(store.NewRegistry())
	emitter := telemetry.NewSyncEmitter(nil, "", "test", 7)
	self := models.User{ID: 7, Username: "ana"}
	return NewCoordinator(roomAPI, messages, sender, emitter, self), roomAPI, sender, messages
}

func TestSendUploadsAndAnnouncesWithSameCorrelationID(t *testing.T) {
	coord, roomAPI, sender, messages := newCoordinator(t)

	roomAPI.On("UploadFile", mock.Anything, 3, "cat.png", mock.Anything).
		Return("uploads/cat.png", nil)

	var announced models.OutboundFrame
	sender.On("Send", mock.AnythingOfType("models.OutboundFrame")).
		Run(func(args mock.Arguments) {
			announced = args.Get(0).(models.OutboundFrame)
		}).
		Return(nil)

	inserted, err := coord.Send(context.Background(), 3, "cat.png",
		strings.NewReader("pixels"), "blob:local-cat")
	require.NoError(t, err)

	assert.True(t, inserted.Provisional())
	assert.Equal(t, "blob:local-cat", inserted.File)
	assert.Equal(t, 1, messages.Len())

	assert.Equal(t, models.FrameMessage, announced.Type)
	assert.Equal(t, "uploads/cat.png", announced.File)
	assert.Equal(t, inserted.ClientID, announced.ClientID)
	assert.NotEmpty(t, announced.ClientID)

	roomAPI.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestSendDefaultsPreviewToLocalScheme(t *testing.T) {
	coord, roomAPI, sender, messages := newCoordinator(t)

	roomAPI.On("UploadFile", mock.Anything, 3, "notes.pdf", mock.Anything).
		Return("uploads/notes.pdf", nil)
	sender.On("Send", mock.AnythingOfType("models.OutboundFrame")).Return(nil)

	inserted, err := coord.Send(context.Background(), 3, "notes.pdf",
		strings.NewReader("doc"), "")
	require.NoError(t, err)
	assert.Equal(t, models.LocalPreviewScheme+"notes.pdf", inserted.File)

	got := messages.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, inserted.LocalID(), got[0].LocalID())
}

func TestSendUploadFailureLeavesProvisionalEntry(t *testing.T) {
	coord, roomAPI, sender, messages := newCoordinator(t)

	roomAPI.On("UploadFile", mock.Anything, 3, "cat.png", mock.Anything).
		Return("", errors.New("connection reset"))

	_, err := coord.Send(context.Background(), 3, "cat.png",
		strings.NewReader("pixels"), "blob:local-cat")
	require.Error(t, err)

	got := messages.Messages()
	require.Len(t, got, 1)
	assert.True(t, got[0].Provisional())
	assert.Equal(t, "blob:local-cat", got[0].File)

	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestSendAnnounceFailureReportsError(t *testing.T) {
	coord, roomAPI, sender, messages := newCoordinator(t)

	roomAPI.On("UploadFile", mock.Anything, 3, "cat.png", mock.Anything).
		Return("uploads/cat.png", nil)
	sender.On("Send", mock.AnythingOfType("models.OutboundFrame")).
		Return(errors.New("channel closed"))

	_, err := coord.Send(context.Background(), 3, "cat.png",
		strings.NewReader("pixels"), "blob:local-cat")
	require.Error(t, err)
	assert.Equal(t, 1, messages.Len())
}

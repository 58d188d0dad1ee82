package upload

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"chat-client/internal/api"
	"chat-client/internal/models"
	"chat-client/internal/observability"
	"chat-client/internal/store"
	"chat-client/internal/telemetry"
)

// FrameSender transmits one outbound frame on the open room channel.
type FrameSender interface {
	Send(frame models.OutboundFrame) error
}

// Coordinator runs the two-phase attachment send: an optimistic entry with
// a local preview appears immediately, the file body goes up over REST, and
// the announce frame carries the server-side reference plus the same
// correlation id so the echo confirms the entry the preview created.
type Coordinator struct {
	api     api.RoomAPI
	store   *store.MessageStore
	sender  FrameSender
	emitter *telemetry.SyncEmitter
	self    models.User
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(roomAPI api.RoomAPI, messages *store.MessageStore, sender FrameSender, emitter *telemetry.SyncEmitter, self models.User) *Coordinator {
	return &Coordinator{api: roomAPI, store: messages, sender: sender, emitter: emitter, self: self}
}

// Send uploads the file to roomID and announces it. preview is a local
// reference rendered while the upload is in flight; empty falls back to a
// placeholder under the local scheme. On upload failure the provisional
// entry stays in place so the user sees what did not go through.
func (c *Coordinator) Send(ctx context.Context, roomID int, filename string, contents io.Reader, preview string) (models.Message, error) {
	ctx, span := otel.Tracer("chat-client/upload").Start(ctx, "upload.send")
	defer span.End()

	if preview == "" {
		preview = models.LocalPreviewScheme + filename
	}

	clientID := uuid.NewString()
	draft := models.Message{
		User:      c.self,
		UserID:    c.self.ID,
		File:      preview,
		CreatedAt: time.Now(),
	}
	inserted := c.store.InsertOptimistic(clientID, draft)

	ref, err := c.api.UploadFile(ctx, roomID, filename, contents)
	if err != nil {
		observability.IncUpload("error")
		c.emitter.Emit(ctx, "upload_failed", roomID, err.Error())
		return inserted, fmt.Errorf("upload %s: %w", filename, err)
	}
	observability.IncUpload("success")

	err = c.sender.Send(models.OutboundFrame{
		Type:     models.FrameMessage,
		File:     ref,
		ClientID: clientID,
	})
	if err != nil {
		c.emitter.Emit(ctx, "upload_announce_failed", roomID, err.Error())
		return inserted, fmt.Errorf("announce upload %s: %w", filename, err)
	}
	return inserted, nil
}

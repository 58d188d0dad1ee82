package telemetry

import (
	"context"
	"log"
	"time"

	"chat-client/internal/observability"
)

// Publisher delivers telemetry envelopes to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// SyncEmitter records notable sync-engine events (room opened, socket
// dropped, upload failed, auth expired) for fleet diagnostics. With no
// publisher configured every emit is a no-op.
type SyncEmitter struct {
	publisher   Publisher
	routingKey  string
	environment string
	userID      int
}

// SyncEnvelope is the wire form of one emitted event.
type SyncEnvelope struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	OccurredAt    string      `json:"occurred_at"`
	Service       string      `json:"service"`
	Environment   string      `json:"environment"`
	UserID        int         `json:"user_id,omitempty"`
	Payload       SyncPayload `json:"payload"`
}

// SyncPayload names the event and the room it concerns, with an optional
// free-form detail (close reason, upload error).
type SyncPayload struct {
	Event  string `json:"event"`
	RoomID int    `json:"room_id,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewSyncEmitter constructs an emitter bound to one client session.
func NewSyncEmitter(publisher Publisher, routingKey, environment string, userID int) *SyncEmitter {
	return &SyncEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		environment: environment,
		userID:      userID,
	}
}

// Emit publishes one sync event. Failures are logged and counted, never
// surfaced: telemetry must not disturb the engine.
func (e *SyncEmitter) Emit(ctx context.Context, event string, roomID int, detail string) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := SyncEnvelope{
		SchemaVersion: 1,
		EventType:     "client_sync",
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       "chat-client",
		Environment:   e.environment,
		UserID:        e.userID,
		Payload: SyncPayload{
			Event:  event,
			RoomID: roomID,
			Detail: detail,
		},
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("telemetry publish failed: %v", err)
	}
}

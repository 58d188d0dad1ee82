package models

import (
	"encoding/json"
	"errors"
)

// Inbound frame discriminators.
const (
	FrameMessage = "message"
	FrameEdit    = "edit"
	FrameDelete  = "delete"
	FrameTyping  = "typing"
	FrameStatus  = "status"
	FrameUnread  = "unread_update"
)

// ErrUnknownFrame marks a frame type this client does not understand.
// Dispatchers skip such frames so newer servers stay compatible.
var ErrUnknownFrame = errors.New("unknown frame type")

// Event is one decoded inbound frame.
type Event interface {
	frameType() string
}

// MessageEvent carries a new or echoed message for a room.
type MessageEvent struct {
	Message Message
}

// EditEvent rewrites the body of an existing message.
type EditEvent struct {
	ID   int
	Body string
}

// DeleteEvent removes a message by server id.
type DeleteEvent struct {
	ID int
}

// TypingEvent signals that a user is composing in the open room.
type TypingEvent struct {
	User User
}

// StatusEvent marks a user online or offline in the open room.
type StatusEvent struct {
	Status string
	User   User
}

// UnreadEvent is the inbox-side notification for a room that is not open:
// enough to refresh the preview and bump the unread counter.
type UnreadEvent struct {
	RoomID  int
	Preview string
	HasFile bool
}

func (MessageEvent) frameType() string { return FrameMessage }
func (EditEvent) frameType() string    { return FrameEdit }
func (DeleteEvent) frameType() string  { return FrameDelete }
func (TypingEvent) frameType() string  { return FrameTyping }
func (StatusEvent) frameType() string  { return FrameStatus }
func (UnreadEvent) frameType() string  { return FrameUnread }

// DecodeFrame parses a raw inbound frame into its event variant. Each
// variant decodes only the fields it needs; unknown types return
// ErrUnknownFrame.
func DecodeFrame(data []byte) (Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case FrameMessage:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return MessageEvent{Message: msg}, nil

	case FrameEdit:
		var v struct {
			ID      int    `json:"id"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return EditEvent{ID: v.ID, Body: v.Message}, nil

	case FrameDelete:
		var v struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return DeleteEvent{ID: v.ID}, nil

	case FrameTyping:
		var v struct {
			User User `json:"user"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return TypingEvent{User: v.User}, nil

	case FrameStatus:
		var v struct {
			Status string `json:"status"`
			User   User   `json:"user"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return StatusEvent{Status: v.Status, User: v.User}, nil

	case FrameUnread:
		return decodeUnread(data)

	default:
		return nil, ErrUnknownFrame
	}
}

// The unread notification has two shapes depending on which server channel
// produced it: the user channel sends last_message/has_file, the room
// channel sends message plus a boolean file flag.
func decodeUnread(data []byte) (Event, error) {
	var v struct {
		RoomID      json.RawMessage `json:"room_id"`
		Message     string          `json:"message"`
		LastMessage string          `json:"last_message"`
		File        json.RawMessage `json:"file"`
		HasFile     bool            `json:"has_file"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	ev := UnreadEvent{RoomID: decodeRoomID(v.RoomID), Preview: v.Message, HasFile: v.HasFile}
	if v.LastMessage != "" {
		ev.Preview = v.LastMessage
	}
	if !ev.HasFile && len(v.File) > 0 {
		var b bool
		if err := json.Unmarshal(v.File, &b); err == nil {
			ev.HasFile = b
		}
	}
	return ev, nil
}

// OutboundFrame is an event sent to the server over the room socket. Zero
// fields are omitted, so the one struct covers message, edit, delete and
// typing sends.
type OutboundFrame struct {
	Type     string `json:"type"`
	ID       int    `json:"id,omitempty"`
	Message  string `json:"message,omitempty"`
	File     string `json:"file,omitempty"`
	ReplyTo  int    `json:"reply_to,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"chat-client/internal/models"
	"chat-client/internal/observability"
)

// ErrAuthExpired marks an authorization failure (401/403). The caller is
// expected to clear stored credentials and re-authenticate; the engine
// never refreshes credentials itself.
var ErrAuthExpired = errors.New("authorization expired")

// RoomDetail is the room fetch used to seed an opened room.
type RoomDetail struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	IsPrivate bool             `json:"is_private"`
	Messages  []models.Message `json:"messages"`
}

// RoomAPI is the request/response surface the sync engine consumes.
type RoomAPI interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, roomID int) (RoomDetail, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	StartPrivateRoom(ctx context.Context, userID int) (models.Room, error)
	SendText(ctx context.Context, roomID int, content string) (models.Message, error)
	EditMessage(ctx context.Context, messageID int, content string) (models.Message, error)
	DeleteMessage(ctx context.Context, messageID int) error
	UploadFile(ctx context.Context, roomID int, filename string, file io.Reader) (string, error)
}

// Client talks to the chat backend's REST endpoints, attaching the bearer
// credential to every call.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

// NewClient constructs a Client. A nil httpClient selects a default with a
// sane timeout.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{http: httpClient, baseURL: baseURL, token: token}
}

var _ RoomAPI = (*Client)(nil)

// ListRooms fetches the rooms visible to the user, with sidebar summaries.
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.list_rooms")
	defer span.End()

	var rooms []models.Room
	if err := c.doJSON(ctx, "list_rooms", http.MethodGet, "/chat/rooms/", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom fetches one room with its full message history, ascending by
// creation time. Opening a room this way also marks it read server-side.
func (c *Client) GetRoom(ctx context.Context, roomID int) (RoomDetail, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.get_room")
	defer span.End()

	var detail RoomDetail
	err := c.doJSON(ctx, "get_room", http.MethodGet, fmt.Sprintf("/chat/rooms/%d/", roomID), nil, &detail)
	return detail, err
}

// ListUsers fetches the peer directory (everyone but the viewer).
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.list_users")
	defer span.End()

	var users []models.User
	if err := c.doJSON(ctx, "list_users", http.MethodGet, "/chat/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// StartPrivateRoom finds or creates the private room with the given peer.
// The server guarantees at most one such room per pair.
func (c *Client) StartPrivateRoom(ctx context.Context, userID int) (models.Room, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.start_private_room")
	defer span.End()

	var room models.Room
	err := c.doJSON(ctx, "start_private_room", http.MethodPost, "/chat/chat/private/", map[string]any{"user_id": userID}, &room)
	return room, err
}

// SendText posts a text message over REST, the alternate send path that
// bypasses the room socket.
func (c *Client) SendText(ctx context.Context, roomID int, content string) (models.Message, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.send_text")
	defer span.End()

	var msg models.Message
	err := c.doJSON(ctx, "send_text", http.MethodPost, fmt.Sprintf("/chat/rooms/%d/send/", roomID), map[string]any{"content": content}, &msg)
	return msg, err
}

// EditMessage rewrites a message body over REST.
func (c *Client) EditMessage(ctx context.Context, messageID int, content string) (models.Message, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.edit_message")
	defer span.End()

	var msg models.Message
	err := c.doJSON(ctx, "edit_message", http.MethodPatch, fmt.Sprintf("/chat/messages/%d/edit/", messageID), map[string]any{"content": content}, &msg)
	return msg, err
}

// DeleteMessage deletes a message by server id.
func (c *Client) DeleteMessage(ctx context.Context, messageID int) error {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.delete_message")
	defer span.End()

	return c.doJSON(ctx, "delete_message", http.MethodDelete, fmt.Sprintf("/chat/messages/%d/delete/", messageID), nil, nil)
}

// UploadFile uploads an attachment for a room and returns the durable
// server file reference (a raw relative path).
func (c *Client) UploadFile(ctx context.Context, roomID int, filename string, file io.Reader) (string, error) {
	ctx, span := otel.Tracer("chat-client/api").Start(ctx, "api.upload_file")
	defer span.End()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+fmt.Sprintf("/chat/rooms/%d/upload/", roomID), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp struct {
		File string `json:"file"`
	}
	if err := c.send("upload_file", req, &resp); err != nil {
		return "", err
	}
	return resp.File, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(op, req, out)
}

func (c *Client) send(op string, req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.http.Do(req)
	if err != nil {
		observability.IncAPIRequest(op, "error")
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		observability.IncAPIRequest(op, "auth_expired")
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrAuthExpired)
	case res.StatusCode >= 400:
		observability.IncAPIRequest(op, "error")
		return fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, res.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			observability.IncAPIRequest(op, "error")
			return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
		}
	}
	observability.IncAPIRequest(op, "success")
	return nil
}

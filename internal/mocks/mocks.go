package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"chat-client/internal/api"
	"chat-client/internal/models"
)

type RoomAPIMock struct {
	mock.Mock
}

var _ api.RoomAPI = (*RoomAPIMock)(nil)

func (m *RoomAPIMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomAPIMock) GetRoom(ctx context.Context, roomID int) (api.RoomDetail, error) {
	args := m.Called(ctx, roomID)
	var detail api.RoomDetail
	if val := args.Get(0); val != nil {
		detail = val.(api.RoomDetail)
	}
	return detail, args.Error(1)
}

func (m *RoomAPIMock) ListUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *RoomAPIMock) StartPrivateRoom(ctx context.Context, userID int) (models.Room, error) {
	args := m.Called(ctx, userID)
	var room models.Room
	if val := args.Get(0); val != nil {
		room = val.(models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomAPIMock) SendText(ctx context.Context, roomID int, content string) (models.Message, error) {
	args := m.Called(ctx, roomID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *RoomAPIMock) EditMessage(ctx context.Context, messageID int, content string) (models.Message, error) {
	args := m.Called(ctx, messageID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *RoomAPIMock) DeleteMessage(ctx context.Context, messageID int) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *RoomAPIMock) UploadFile(ctx context.Context, roomID int, filename string, file io.Reader) (string, error) {
	args := m.Called(ctx, roomID, filename, file)
	return args.String(0), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type FrameSenderMock struct {
	mock.Mock
}

func (m *FrameSenderMock) Send(frame models.OutboundFrame) error {
	args := m.Called(frame)
	return args.Error(0)
}

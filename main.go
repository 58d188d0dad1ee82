package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chat-client/internal/api"
	"chat-client/internal/auth"
	"chat-client/internal/config"
	"chat-client/internal/models"
	"chat-client/internal/presence"
	"chat-client/internal/rabbitmq"
	"chat-client/internal/roomlist"
	"chat-client/internal/store"
	"chat-client/internal/telemetry"
	"chat-client/internal/upload"
	"chat-client/internal/ws"
)

func main() {
	cfg := config.Load()
	if cfg.AccessToken == "" {
		log.Fatalf("CHAT_ACCESS_TOKEN is required")
	}

	identity, err := auth.FromToken(cfg.AccessToken)
	if err != nil {
		log.Fatalf("failed to read identity from token: %v", err)
	}
	self := models.User{ID: identity.UserID, Username: identity.Username}

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("telemetry publisher mode: %s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewSyncEmitter(publisher, "client.sync", cfg.Environment, self.ID)

	client := api.NewClient(cfg.APIBaseURL, cfg.AccessToken, nil)
	registry := store.NewRegistry()
	messages := store.NewMessageStore(registry)
	tracker := presence.NewTracker()
	typing := presence.NewTypingIndicator(cfg.TypingDecay)
	rooms := roomlist.NewAggregator()

	wsCfg := ws.Config{
		WSBaseURL:    cfg.WSBaseURL,
		APIBaseURL:   cfg.APIBaseURL,
		MediaBaseURL: cfg.MediaBaseURL,
		Token:        cfg.AccessToken,
	}
	session := ws.NewSession(wsCfg, client, messages, tracker, typing, rooms, self, emitter)
	defer session.Close()

	uploader := upload.NewCoordinator(client, messages, session, emitter, self)

	ctx := context.Background()

	listed, err := client.ListRooms(ctx)
	if err != nil {
		log.Fatalf("failed to list rooms: %v", err)
	}
	rooms.Seed(listed)

	inbox := ws.NewInbox(wsCfg, rooms)
	go func() {
		if err := inbox.Listen(ctx); err != nil {
			log.Printf("inbox listener stopped: %v", err)
		}
	}()
	defer inbox.Close()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("metrics listener stopped: %v", err)
			}
		}()
	}

	fmt.Printf("connected as %s (#%d). commands: /rooms /open <id> /users /pm <user_id> /edit <id> <text> /del <id> /upload <path> /who /quit\n",
		self.Username, self.ID)
	printRooms(rooms.Rooms(), self.ID)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			if session.RoomID() == 0 {
				fmt.Println("open a room first: /open <id>")
				continue
			}
			if _, err := session.SendMessage(line, 0); err != nil {
				log.Printf("send failed: %v", err)
			}
			continue
		}
		if line == "/quit" {
			return
		}
		runCommand(ctx, line, client, session, uploader, rooms, messages, tracker, self)
	}
}

func runCommand(ctx context.Context, line string, client *api.Client, session *ws.Session, uploader *upload.Coordinator, rooms *roomlist.Aggregator, messages *store.MessageStore, tracker *presence.Tracker, self models.User) {
	cmd := strings.Fields(line)
	switch cmd[0] {
	case "/rooms":
		printRooms(rooms.Rooms(), self.ID)

	case "/open":
		if len(cmd) < 2 {
			fmt.Println("usage: /open <room_id>")
			return
		}
		id, _ := strconv.Atoi(cmd[1])
		room, ok := rooms.Room(id)
		if !ok {
			fmt.Println("unknown room")
			return
		}
		if err := session.Open(ctx, room); err != nil {
			log.Printf("open failed: %v", err)
			return
		}
		printHistory(messages.Messages())

	case "/users":
		users, err := client.ListUsers(ctx)
		if err != nil {
			log.Printf("list users failed: %v", err)
			return
		}
		for _, u := range users {
			fmt.Printf("  #%d %s\n", u.ID, u.Username)
		}

	case "/pm":
		if len(cmd) < 2 {
			fmt.Println("usage: /pm <user_id>")
			return
		}
		id, _ := strconv.Atoi(cmd[1])
		room, err := client.StartPrivateRoom(ctx, id)
		if err != nil {
			log.Printf("start private room failed: %v", err)
			return
		}
		if err := session.Open(ctx, room); err != nil {
			log.Printf("open failed: %v", err)
		}

	case "/edit":
		if len(cmd) < 3 {
			fmt.Println("usage: /edit <message_id> <text>")
			return
		}
		id, _ := strconv.Atoi(cmd[1])
		if err := session.SendEdit(id, strings.Join(cmd[2:], " ")); err != nil {
			log.Printf("edit failed: %v", err)
		}

	case "/del":
		if len(cmd) < 2 {
			fmt.Println("usage: /del <message_id>")
			return
		}
		id, _ := strconv.Atoi(cmd[1])
		if err := session.DeleteMessage(ctx, id); err != nil {
			log.Printf("delete failed: %v", err)
		}

	case "/upload":
		if len(cmd) < 2 {
			fmt.Println("usage: /upload <path>")
			return
		}
		f, err := os.Open(cmd[1])
		if err != nil {
			log.Printf("open file failed: %v", err)
			return
		}
		defer f.Close()
		if _, err := uploader.Send(ctx, session.RoomID(), filepath.Base(cmd[1]), f, ""); err != nil {
			log.Printf("upload failed: %v", err)
		}

	case "/who":
		for _, u := range tracker.Online() {
			fmt.Printf("  online: %s\n", u.Username)
		}

	default:
		fmt.Println("unknown command")
	}
}

func printRooms(rooms []models.Room, selfID int) {
	for _, r := range rooms {
		line := fmt.Sprintf("  #%d %s", r.ID, r.Title(selfID))
		if r.LastMessage != nil {
			line += ": " + r.LastMessage.Preview()
		}
		if r.UnreadCount > 0 {
			line += fmt.Sprintf(" (%d unread)", r.UnreadCount)
		}
		fmt.Println(line)
	}
}

func printHistory(history []models.Message) {
	var prev models.Message
	for i, m := range history {
		if i == 0 || models.IsNewDay(m.CreatedAt, prev.CreatedAt) {
			fmt.Printf("  --- %s ---\n", models.DayLabel(m.CreatedAt, time.Now()))
		}
		body := m.Body
		if body == "" && m.File != "" {
			body = "[file] " + m.File
		}
		fmt.Printf("  [%s] %s: %s\n", m.CreatedAt.Format("15:04"), m.User.Username, body)
		prev = m
	}
}

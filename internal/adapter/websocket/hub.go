package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/arremateai/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/arremateai/internal/adapter/queue"
	"github.com/seu-repo/arremateai/internal/domain"
)

const sendBuffer = 256

// conn is the part of *websocket.Conn the hub uses.
type conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Envelope wraps every event pushed to clients.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans domain events out to the connected admin consoles.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	log     *zap.Logger
}

type Client struct {
	hub    *Hub
	conn   conn
	send   chan []byte
	userID string
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{clients: make(map[*Client]struct{}), log: log}
}

// Subscribe forwards every message published on subjects to the clients.
func (h *Hub) Subscribe(q queue.MessageQueue, subjects ...string) error {
	for _, subject := range subjects {
		subject := subject
		err := q.Subscribe(subject, func(data []byte) error {
			msg, err := json.Marshal(Envelope{Type: subject, Payload: data})
			if err != nil {
				return err
			}
			h.Broadcast(msg)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Broadcast queues message for every client. Clients whose buffer is full
// are dropped.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			h.log.Warn("Dropping slow websocket client", zap.String("user_id", client.userID))
			h.removeLocked(client)
		}
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Serve registers c and blocks until the client goes away.
func (h *Hub) Serve(c conn, userID string) {
	client := h.register(c, userID)
	go client.writePump()
	client.readPump()
}

func (h *Hub) register(c conn, userID string) *Client {
	client := &Client{hub: h, conn: c, send: make(chan []byte, sendBuffer), userID: userID}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.log.Info("Websocket client connected", zap.String("user_id", userID))
	return client
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.removeLocked(client)
	}
}

// Upgrade rejects plain HTTP requests on the websocket route.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler serves the feed. It expects middleware.AuthRequired upstream.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		actor, _ := c.Locals(middleware.ActorLocal).(domain.Actor)
		h.Serve(c, actor.ID)
	})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()
	for {
		// Clients only listen; reading keeps control frames flowing.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer func() { _ = c.conn.Close() }()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.hub.remove(c)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

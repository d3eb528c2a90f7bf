package chat

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	maxMessageSize = 4096
)

// Message is one chat line broadcast to a team room.
type Message struct {
	TeamID   string    `json:"team_id"`
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Text     string    `json:"text"`
	SentAt   time.Time `json:"sent_at"`
}

// Client is one websocket connection bound to a team room.
type Client struct {
	hub    *Hub
	teamID string
	userID string
	name   string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub fans chat messages out to every connection in the same team room.
// Rooms exist only in memory; history is not persisted and a reconnecting
// client starts from the next message.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Join registers a connection in its team room and starts its pumps.
func (h *Hub) Join(teamID, userID, name string, conn *websocket.Conn) {
	client := &Client{
		hub:    h,
		teamID: teamID,
		userID: userID,
		name:   name,
		conn:   conn,
		send:   make(chan []byte, 32),
	}

	h.mu.Lock()
	room, ok := h.rooms[teamID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[teamID] = room
	}
	room[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("chat client joined",
		slog.String("team_id", teamID),
		slog.String("user_id", userID),
	)

	go client.writePump()
	client.readPump()
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.teamID]; ok {
		if _, present := room[c]; present {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.rooms, c.teamID)
		}
	}
	h.mu.Unlock()

	h.logger.Info("chat client left",
		slog.String("team_id", c.teamID),
		slog.String("user_id", c.userID),
	)
}

// broadcast delivers a message to every client in the room. A client whose
// send buffer is full is dropped rather than allowed to stall the room.
func (h *Hub) broadcast(teamID string, payload []byte) {
	h.mu.RLock()
	room := h.rooms[teamID]
	stalled := make([]*Client, 0)
	for c := range room {
		select {
		case c.send <- payload:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		h.leave(c)
		c.conn.Close()
	}
}

// RoomSize reports how many clients are connected to a team room.
func (h *Hub) RoomSize(teamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[teamID])
}

func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("chat read failed",
					slog.String("team_id", c.teamID),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		var incoming struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &incoming); err != nil || incoming.Text == "" {
			continue
		}

		msg := Message{
			TeamID:   c.teamID,
			UserID:   c.userID,
			UserName: c.name,
			Text:     incoming.Text,
			SentAt:   time.Now().UTC(),
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		c.hub.broadcast(c.teamID, payload)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

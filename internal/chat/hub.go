package chat

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"servizo-backend/internal/models"
	"servizo-backend/internal/repository"

	"github.com/gorilla/websocket"
)

// Evento del lobby. Type define qué campos del payload aplican.
// UserID es el id de conexión; AccountID el userId de la cuenta (0 si
// es invitado).
type Event struct {
	Type      string `json:"type"`
	UserID    string `json:"userId,omitempty"`
	AccountID int    `json:"accountId,omitempty"`
	UserName  string `json:"userName,omitempty"`
	Message   string `json:"message,omitempty"`
	IsAdmin   bool   `json:"isAdmin,omitempty"`
	IsTyping  bool   `json:"isTyping,omitempty"`
	Count     int    `json:"count,omitempty"`
	Users     []Peer `json:"users,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Peer es lo que se publica de cada usuario conectado.
type Peer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	UserID   int    `json:"userId,omitempty"`
	JoinedAt string `json:"joinedAt"`
}

type client struct {
	conn    *websocket.Conn
	peer    Peer
	joined  bool
	writeMu sync.Mutex
}

func (c *client) send(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub es el lobby global de chat: un solo room, broadcast a todos.
type Hub struct {
	repo *repository.ChatRepository

	mu      sync.RWMutex
	clients map[*client]struct{}
	nextID  int
}

func NewHub(repo *repository.ChatRepository) *Hub {
	return &Hub{
		repo:    repo,
		clients: make(map[*client]struct{}),
	}
}

const replayLimit = 50

// Serve maneja una conexión ya upgradeada hasta que se cierra.
func (h *Hub) Serve(ctx context.Context, conn *websocket.Conn) {
	h.mu.Lock()
	h.nextID++
	c := &client{
		conn: conn,
		peer: Peer{ID: fmt.Sprintf("c%d", h.nextID)},
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	defer h.drop(c)

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}

		switch ev.Type {
		case "user_join":
			h.handleJoin(ctx, c, ev)
		case "chat_message":
			h.handleMessage(ctx, c, ev)
		case "typing":
			h.broadcastExcept(c, Event{
				Type:     "user_typing",
				UserID:   c.peer.ID,
				UserName: c.displayName(),
				IsTyping: ev.IsTyping,
			})
		}
	}
}

func (h *Hub) handleJoin(ctx context.Context, c *client, ev Event) {
	name := ev.UserName
	if name == "" {
		name = "Guest"
	}

	h.mu.Lock()
	c.peer.Name = name
	c.peer.UserID = ev.AccountID
	c.peer.JoinedAt = time.Now().UTC().Format(time.RFC3339)
	c.joined = true
	h.mu.Unlock()

	users := h.peerList()

	h.broadcast(Event{Type: "user_list", Users: users})
	h.broadcast(Event{
		Type:     "user_joined",
		UserID:   c.peer.ID,
		UserName: name,
		Count:    len(users),
	})

	// replay de los últimos mensajes solo al que entra
	if h.repo != nil {
		history, err := h.repo.Latest(ctx, replayLimit)
		if err != nil {
			log.Printf("[chat] error leyendo historial: %v", err)
			return
		}
		for _, m := range history {
			_ = c.send(Event{
				Type:      "new_message",
				AccountID: m.UserID,
				UserName:  m.UserName,
				Message:   m.Message,
				IsAdmin:   m.IsAdmin,
				Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
			})
		}
	}

	log.Printf("[chat] %s entró al lobby (total: %d)", name, len(users))
}

func (h *Hub) handleMessage(ctx context.Context, c *client, ev Event) {
	if ev.Message == "" {
		return
	}

	now := time.Now()
	msg := models.ChatMessage{
		UserID:    c.peer.UserID,
		UserName:  c.displayName(),
		Message:   ev.Message,
		IsAdmin:   ev.IsAdmin,
		Timestamp: now,
	}

	// persistimos antes de emitir; si Mongo falla el mensaje igual sale
	if h.repo != nil {
		if err := h.repo.Insert(ctx, &msg); err != nil {
			log.Printf("[chat] error guardando mensaje: %v", err)
		}
	}

	h.broadcast(Event{
		Type:      "new_message",
		UserID:    c.peer.ID,
		AccountID: msg.UserID,
		UserName:  msg.UserName,
		Message:   msg.Message,
		IsAdmin:   msg.IsAdmin,
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	wasJoined := c.joined
	h.mu.Unlock()

	_ = c.conn.Close()

	users := h.peerList()
	h.broadcast(Event{Type: "user_list", Users: users})
	if wasJoined {
		h.broadcast(Event{
			Type:     "user_left",
			UserID:   c.peer.ID,
			UserName: c.peer.Name,
			Count:    len(users),
		})
	}
}

func (c *client) displayName() string {
	if c.peer.Name == "" {
		return "Guest"
	}
	return c.peer.Name
}

// peerList devuelve los usuarios que ya hicieron user_join.
func (h *Hub) peerList() []Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]Peer, 0, len(h.clients))
	for c := range h.clients {
		if c.joined {
			users = append(users, c.peer)
		}
	}
	return users
}

func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.send(ev); err != nil {
			log.Printf("[chat] error enviando a %s: %v", c.peer.ID, err)
		}
	}
}

func (h *Hub) broadcastExcept(skip *client, ev Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if c != skip {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		_ = c.send(ev)
	}
}

// Package broadcast relays committed dungeon events to WebSocket clients.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// Message types sent to clients
const (
	TypeDungeonUpdate = "DUNGEON_UPDATE"
	TypeAttackEvent   = "ATTACK_EVENT"
	TypeDungeonDelete = "DUNGEON_DELETE"
)

const (
	defaultSendBuffer   = 32
	defaultWriteTimeout = 5 * time.Second
)

// Message is one frame written to a client
type Message struct {
	Type      string `json:"type"`
	Action    string `json:"action,omitempty"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Payload   any    `json:"payload,omitempty"`
}

// AttackPayload is the payload of an ATTACK_EVENT
type AttackPayload struct {
	Command *dungeon.Command   `json:"command"`
	Log     *dungeon.CombatLog `json:"log"`
}

// Config holds the dependencies for the hub
type Config struct {
	EventBus events.EventBus

	// SendBuffer is the number of frames queued per client before the client
	// is dropped. Zero uses the default.
	SendBuffer int
	// WriteTimeout bounds a single frame write. Zero uses the default.
	WriteTimeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.SendBuffer < 0 {
		vb.InvalidField("SendBuffer", "must not be negative")
	}
	if c.WriteTimeout < 0 {
		vb.InvalidField("WriteTimeout", "must not be negative")
	}
	return vb.Build()
}

// Hub fans dungeon events out to connected clients
type Hub struct {
	bus          events.EventBus
	upgrader     websocket.Upgrader
	sendBuffer   int
	writeTimeout time.Duration
	subs         []string

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates a hub and subscribes it to the dungeon events on the bus
func NewHub(cfg *Config) (*Hub, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	h := &Hub{
		bus:          cfg.EventBus,
		sendBuffer:   cfg.SendBuffer,
		writeTimeout: cfg.WriteTimeout,
		clients:      make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	if h.sendBuffer == 0 {
		h.sendBuffer = defaultSendBuffer
	}
	if h.writeTimeout == 0 {
		h.writeTimeout = defaultWriteTimeout
	}

	for _, typ := range []string{dungeon.EventCreated, dungeon.EventTurnResolved, dungeon.EventDeleted} {
		h.subs = append(h.subs, h.bus.SubscribeFunc(typ, 0, h.handle))
	}

	return h, nil
}

// ServeHTTP upgrades the request to a WebSocket. The optional namespace and
// name query parameters restrict which dungeons the client hears about.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, h.sendBuffer),
		namespace: r.URL.Query().Get("namespace"),
		name:      r.URL.Query().Get("name"),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	slog.Debug("WebSocket client connected",
		"remote", r.RemoteAddr,
		"namespace", c.namespace,
		"dungeon", c.name)

	go c.writeLoop()
	go c.readLoop()
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unsubscribes from the bus and disconnects every client
func (h *Hub) Close() {
	for _, id := range h.subs {
		if err := h.bus.Unsubscribe(id); err != nil {
			slog.Warn("Failed to unsubscribe hub", "subscription", id, "error", err)
		}
	}

	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

func (h *Hub) handle(_ context.Context, e events.Event) error {
	ev, ok := e.Source().(*dungeon.Event)
	if !ok {
		return nil
	}

	for _, msg := range messagesFor(ev) {
		frame, err := json.Marshal(msg)
		if err != nil {
			return errors.Wrap(err, "failed to encode broadcast")
		}
		h.broadcast(ev.Namespace, ev.Name, frame)
	}
	return nil
}

func messagesFor(ev *dungeon.Event) []Message {
	base := Message{Namespace: ev.Namespace, Name: ev.Name}

	switch ev.Type {
	case dungeon.EventCreated:
		m := base
		m.Type, m.Action, m.Payload = TypeDungeonUpdate, "create", ev.State
		return []Message{m}
	case dungeon.EventTurnResolved:
		attack := base
		attack.Type, attack.Payload = TypeAttackEvent, AttackPayload{Command: ev.Command, Log: ev.Log}
		update := base
		update.Type, update.Action, update.Payload = TypeDungeonUpdate, "update", ev.State
		return []Message{attack, update}
	case dungeon.EventDeleted:
		m := base
		m.Type, m.Action = TypeDungeonDelete, "delete"
		return []Message{m}
	}
	return nil
}

func (h *Hub) broadcast(namespace, name string, frame []byte) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.wants(namespace, name) {
			continue
		}
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		slog.Warn("Dropping slow WebSocket client", "namespace", c.namespace, "dungeon", c.name)
		h.remove(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.close()
	}
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	namespace string
	name      string
	closeOnce sync.Once
}

func (c *client) wants(namespace, name string) bool {
	if c.namespace != "" && c.namespace != namespace {
		return false
	}
	return c.name == "" || c.name == name
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *client) writeLoop() {
	defer c.conn.Close()

	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.hub.writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			slog.Debug("WebSocket write failed", "error", err)
			c.hub.remove(c)
			break
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// readLoop discards client frames and detects disconnects
func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.remove(c)
			return
		}
	}
}

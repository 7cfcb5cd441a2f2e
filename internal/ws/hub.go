package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/golfgang/backend/internal/game"
)

// Options tunes per-connection limits.
type Options struct {
	ReadLimit         int64
	MessagesPerSecond float64
	MessageBurst      int
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 65536
	}
	if o.MessagesPerSecond <= 0 {
		o.MessagesPerSecond = 20
	}
	if o.MessageBurst <= 0 {
		o.MessageBurst = 40
	}
	return o
}

// Hub maintains the set of active clients and which room each one watches.
type Hub struct {
	manager    *game.GameManager
	opts       Options
	clients    map[string]*Client            // conn ID -> Client
	rooms      map[string]map[string]*Client // room ID -> conn ID -> Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(manager *game.GameManager, opts Options) *Hub {
	return &Hub{
		manager:    manager,
		opts:       opts.withDefaults(),
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(h.opts.MessagesPerSecond), h.opts.MessageBurst)
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	log.Info().Str("component", "ws").Msg("hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			log.Debug().Str("component", "ws").Str("conn_id", client.id).
				Str("user_id", client.identity.UserID).Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client.id]
			if ok {
				delete(h.clients, client.id)
				h.detachLocked(client)
				close(client.send)
			}
			h.mu.Unlock()

			if ok {
				log.Debug().Str("component", "ws").Str("conn_id", client.id).Msg("client disconnected")
				// A dropped connection gives up its seat.
				h.leaveRoom(client)
			}
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		client.conn.Close()
		delete(h.clients, id)
	}
	h.rooms = make(map[string]map[string]*Client)
	log.Info().Str("component", "ws").Msg("hub stopped")
}

// seat records that client now holds playerID in roomID.
func (h *Hub) seat(client *Client, roomID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(client)
	client.setSeat(roomID, playerID)
	if _, exists := h.rooms[roomID]; !exists {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][client.id] = client
}

func (h *Hub) unseat(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(client)
	client.setSeat("", "")
}

func (h *Hub) detachLocked(client *Client) {
	roomID, _ := client.seat()
	if roomID == "" {
		return
	}
	if room, exists := h.rooms[roomID]; exists {
		delete(room, client.id)
		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// leaveRoom gives up the client's seat, if any, and tells the rest of the room.
func (h *Hub) leaveRoom(client *Client) {
	_, playerID := client.seat()
	if playerID == "" {
		return
	}
	h.unseat(client)

	roomID, state, ok := h.manager.LeaveRoom(playerID)
	if !ok {
		return
	}
	h.BroadcastToRoom(roomID, PlayerLeftMessage{Type: MsgPlayerLeft, PlayerID: playerID})
	if state != nil {
		h.BroadcastToRoom(roomID, roomUpdated(*state))
	}
}

// BroadcastToRoom sends a message to every connection seated in a room.
func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("component", "ws").Msg("error marshaling message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			log.Warn().Str("component", "ws").Str("conn_id", client.id).Str("room_id", roomID).
				Msg("client send buffer full, dropping message")
		}
	}
}

// SendToClient sends a message to a single connection.
func (h *Hub) SendToClient(client *Client, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("component", "ws").Msg("error marshaling message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client.id]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		log.Warn().Str("component", "ws").Str("conn_id", client.id).Msg("SendToClient dropped message (buffer full)")
	}
}

// BroadcastRoomUpdate pushes a fresh snapshot to everyone in the room.
func (h *Hub) BroadcastRoomUpdate(state game.RoomState) {
	h.BroadcastToRoom(state.ID, roomUpdated(state))
}

// CloseRoom force-closes a room and tells its occupants.
func (h *Hub) CloseRoom(roomID string) error {
	if _, err := h.manager.CloseRoom(roomID); err != nil {
		return err
	}
	h.BroadcastToRoom(roomID, RoomClosedMessage{Type: MsgRoomClosed, RoomID: roomID})

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.rooms[roomID] {
		client.setSeat("", "")
	}
	delete(h.rooms, roomID)
	return nil
}

// ConnectionCount reports connected clients.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) roomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

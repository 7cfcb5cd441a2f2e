package ws

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/golfgang/backend/internal/auth"
	"github.com/golfgang/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

var errNotSeated = errors.New("you are not in a room")

// ServeWS upgrades a golf client connection. A ?token= identity is optional
// unless requireAuth is set.
func ServeWS(hub *Hub, issuer *auth.Issuer, requireAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var identity auth.Identity
		if token := c.Query("token"); token != "" && issuer != nil {
			id, err := issuer.Parse(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			identity = id
		}
		if requireAuth && identity.UserID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Str("component", "ws").Msg("upgrade error")
			return
		}

		client := &Client{
			id:       uuid.NewString(),
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, sendBuffer),
			limiter:  hub.newLimiter(),
			identity: identity,
		}

		select {
		case hub.register <- client:
		case <-hub.done:
			conn.Close()
			return
		}

		go client.writePump()
		go client.readPump()
	}
}

// handleMessage dispatches one inbound message for client.
func (h *Hub) handleMessage(client *Client, msg ClientMessage) {
	var err error
	switch msg.Type {
	case MsgCreateRoom:
		h.handleCreateRoom(client, msg)
	case MsgJoinRoom:
		err = h.handleJoinRoom(client, msg)
	case MsgLeaveRoom:
		err = h.handleLeaveRoom(client, msg)
	case MsgStartGame:
		err = h.handleStartGame(client, msg)
	case MsgHitBall:
		err = h.handleHitBall(client, msg)
	case MsgRoomList:
		h.SendToClient(client, RoomListMessage{Type: MsgRoomList, Rooms: h.manager.ListPublicRooms()})
	default:
		client.sendError("Unknown message type")
		return
	}

	if err != nil {
		log.Debug().Err(err).Str("component", "ws").Str("conn_id", client.id).
			Str("type", msg.Type).Msg("request rejected")
		client.sendError(err.Error())
	}
}

func (h *Hub) handleCreateRoom(client *Client, msg ClientMessage) {
	h.leaveRoom(client)

	isPublic := true
	if msg.IsPublic != nil {
		isPublic = *msg.IsPublic
	}
	state, playerID := h.manager.CreateRoom(msg.RoomName, displayName(client, msg), isPublic, client.identity.UserID)
	h.seat(client, state.ID, playerID)

	h.SendToClient(client, RoomJoinedMessage{Type: MsgRoomJoined, RoomID: state.ID, PlayerID: playerID})
	h.BroadcastRoomUpdate(state)
}

func (h *Hub) handleJoinRoom(client *Client, msg ClientMessage) error {
	if msg.RoomID == "" {
		return game.ErrRoomNotFound
	}
	if roomID, _ := client.seat(); roomID == msg.RoomID {
		if state, ok := h.manager.GetRoom(roomID); ok {
			h.SendToClient(client, roomUpdated(state))
		}
		return nil
	}
	h.leaveRoom(client)

	state, playerID, err := h.manager.JoinRoom(msg.RoomID, displayName(client, msg), client.identity.UserID)
	if err != nil {
		return err
	}
	h.seat(client, state.ID, playerID)

	h.SendToClient(client, RoomJoinedMessage{Type: MsgRoomJoined, RoomID: state.ID, PlayerID: playerID})
	if p, ok := state.Player(playerID); ok {
		h.BroadcastToRoom(state.ID, PlayerJoinedMessage{Type: MsgPlayerJoined, Player: p})
	}
	h.BroadcastRoomUpdate(state)
	return nil
}

func (h *Hub) handleLeaveRoom(client *Client, msg ClientMessage) error {
	if _, err := h.seatFor(client, msg.RoomID); err != nil {
		return err
	}
	h.leaveRoom(client)
	return nil
}

func (h *Hub) handleStartGame(client *Client, msg ClientMessage) error {
	roomID, err := h.seatFor(client, msg.RoomID)
	if err != nil {
		return err
	}
	state, err := h.manager.StartGame(roomID)
	if err != nil {
		return err
	}
	h.BroadcastRoomUpdate(state)
	return nil
}

// handleHitBall applies a stroke. The client's reported position is ignored;
// the server's ball position is authoritative.
func (h *Hub) handleHitBall(client *Client, msg ClientMessage) error {
	roomID, err := h.seatFor(client, msg.RoomID)
	if err != nil {
		return err
	}
	if msg.Velocity == nil {
		return game.ErrInvalidVelocity
	}
	_, playerID := client.seat()
	state, err := h.manager.HitBall(roomID, playerID, *msg.Velocity)
	if err != nil {
		return err
	}
	h.BroadcastRoomUpdate(state)
	return nil
}

// seatFor returns the client's room, checking it against the room the
// message names. An empty roomId means the current room.
func (h *Hub) seatFor(client *Client, roomID string) (string, error) {
	seated, playerID := client.seat()
	if playerID == "" {
		return "", errNotSeated
	}
	if roomID != "" && roomID != seated {
		return "", game.ErrPlayerNotFound
	}
	return seated, nil
}

func displayName(client *Client, msg ClientMessage) string {
	if msg.PlayerName == "" {
		return client.identity.DisplayName
	}
	return msg.PlayerName
}

package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/golfgang/backend/internal/auth"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// Client is one websocket connection. It holds at most one seat.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	limiter  *rate.Limiter
	identity auth.Identity

	mu       sync.Mutex
	roomID   string
	playerID string
}

func (c *Client) seat() (roomID, playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomID, c.playerID
}

func (c *Client) setSeat(roomID, playerID string) {
	c.mu.Lock()
	c.roomID, c.playerID = roomID, playerID
	c.mu.Unlock()
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Str("component", "ws").Str("conn_id", c.id).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("component", "ws").Str("conn_id", c.id).Msg("websocket ping error")
				return
			}
		}
	}
}

// readPump reads and dispatches inbound messages until the connection drops.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.opts.ReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("component", "ws").Str("conn_id", c.id).Msg("unexpected websocket close")
			}
			return
		}

		if !c.limiter.Allow() {
			c.sendError("Too many messages, slow down")
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message format")
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

func (c *Client) sendError(message string) {
	c.hub.SendToClient(c, errorMessage(message))
}

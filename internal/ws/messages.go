package ws

import "github.com/golfgang/backend/internal/game"

// Inbound message types
const (
	MsgCreateRoom = "create_room"
	MsgJoinRoom   = "join_room"
	MsgLeaveRoom  = "leave_room"
	MsgStartGame  = "start_game"
	MsgHitBall    = "hit_ball"
	MsgRoomList   = "room_list"
)

// Outbound message types
const (
	MsgRoomUpdated  = "room_updated"
	MsgPlayerJoined = "player_joined"
	MsgPlayerLeft   = "player_left"
	MsgError        = "error"
	MsgRoomJoined   = "room_joined"
	MsgRoomClosed   = "room_closed"
)

// ClientMessage is any message a client can send. Fields not used by a
// given type are ignored.
type ClientMessage struct {
	Type       string     `json:"type"`
	RoomName   string     `json:"roomName,omitempty"`
	PlayerName string     `json:"playerName,omitempty"`
	IsPublic   *bool      `json:"isPublic,omitempty"`
	RoomID     string     `json:"roomId,omitempty"`
	Velocity   *game.Vec2 `json:"velocity,omitempty"`
	Position   *game.Vec2 `json:"position,omitempty"`
}

type RoomUpdatedMessage struct {
	Type string         `json:"type"`
	Room game.RoomState `json:"room"`
}

type PlayerJoinedMessage struct {
	Type   string      `json:"type"`
	Player game.Player `json:"player"`
}

type PlayerLeftMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
}

type RoomListMessage struct {
	Type  string           `json:"type"`
	Rooms []game.RoomState `json:"rooms"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RoomJoinedMessage tells a connection which seat it now holds.
type RoomJoinedMessage struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type RoomClosedMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
}

func roomUpdated(state game.RoomState) RoomUpdatedMessage {
	return RoomUpdatedMessage{Type: MsgRoomUpdated, Room: state}
}

func errorMessage(message string) ErrorMessage {
	return ErrorMessage{Type: MsgError, Message: message}
}

package game

import "errors"

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrNotEnoughPlayers   = errors.New("need at least 2 players to start")
	ErrGameNotInProgress  = errors.New("game is not in progress")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrBallInMotion       = errors.New("ball is still moving")
	ErrBallInHole         = errors.New("ball is already in the hole")
	ErrInvalidVelocity    = errors.New("invalid velocity")
	ErrPlayerNotFound     = errors.New("player not in room")
)

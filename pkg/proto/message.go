package proto

import "ctchen222/tictactoe-hotseat/internal/game"

// Message types
const (
	TypeMove    = "move"
	TypeRestart = "restart"
	TypeUpdate  = "update"
	TypeError   = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=move restart"`
	Position []int  `json:"position,omitempty" validate:"required_if=Type move,omitempty,len=2"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string          `json:"type" validate:"required"`
	Reason string          `json:"reason,omitempty"`
	Board  *game.Board     `json:"board,omitempty"`
	Status game.Status     `json:"status,omitempty"`
	Next   game.PlayerMark `json:"next,omitempty"`
	Winner game.PlayerMark `json:"winner,omitempty"`
}

// NewUpdate builds the "update" message for a snapshot.
func NewUpdate(s game.Snapshot) *ServerToClientMessage {
	board := s.Board
	msg := &ServerToClientMessage{
		Type:   TypeUpdate,
		Board:  &board,
		Status: s.Status,
		Winner: s.Status.Winner(),
	}
	if !s.Status.IsTerminal() {
		msg.Next = s.Active
	}
	return msg
}

// NewError builds an "error" message.
func NewError(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: reason}
}

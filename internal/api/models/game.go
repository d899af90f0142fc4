package models

import "ctchen222/tictactoe-hotseat/internal/game"

// MoveRequest defines the structure for a move request. Range checking is
// left to the game so that out-of-board cells report ErrInvalidCoordinate.
type MoveRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// GameView is the JSON representation of a session.
type GameView struct {
	SessionID string          `json:"session_id"`
	Board     game.Board      `json:"board"`
	Status    game.Status     `json:"status"`
	Active    game.PlayerMark `json:"active"`
	Winner    game.PlayerMark `json:"winner"`
}

// NewGameView builds a GameView from a snapshot.
func NewGameView(sessionID string, s game.Snapshot) GameView {
	return GameView{
		SessionID: sessionID,
		Board:     s.Board,
		Status:    s.Status,
		Active:    s.Active,
		Winner:    s.Status.Winner(),
	}
}

// MoveResponse defines the structure for a successful move.
type MoveResponse struct {
	Move game.MoveResult `json:"move"`
	Game GameView        `json:"game"`
}

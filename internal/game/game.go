package game

import (
	"errors"
	"fmt"
)

var (
	ErrCellOccupied      = errors.New("cell already occupied")
	ErrGameAlreadyEnded  = errors.New("game already ended")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
)

// Game is a single Tic-Tac-Toe session. It is not safe for concurrent use.
type Game struct {
	board  Board
	active PlayerMark
	status Status
}

// Snapshot is a value copy of a game, used for rendering and storage.
type Snapshot struct {
	Board  Board      `json:"board"`
	Status Status     `json:"status"`
	Active PlayerMark `json:"active"`
}

// MoveResult describes an applied move.
type MoveResult struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	Mark   PlayerMark `json:"mark"`
	Status Status     `json:"status"`
	Active PlayerMark `json:"active"`
}

// NewGame returns a game with an empty board and Player1 to move.
func NewGame() *Game {
	g := &Game{}
	g.Restart()
	return g
}

// FromSnapshot rebuilds a game from a snapshot, rejecting snapshots whose
// status disagrees with the board.
func FromSnapshot(s Snapshot) (*Game, error) {
	for r, row := range s.Board {
		for c, cell := range row {
			if !cell.Valid() {
				return nil, fmt.Errorf("%w: bad mark %d at (%d, %d)", ErrInvalidSnapshot, int(cell), r, c)
			}
		}
	}
	if !s.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidSnapshot, s.Status)
	}
	if s.Active != Player1 && s.Active != Player2 {
		return nil, fmt.Errorf("%w: active player %s", ErrInvalidSnapshot, s.Active)
	}
	if got := CheckWinner(s.Board).Status(); got != s.Status {
		return nil, fmt.Errorf("%w: status %q, board says %q", ErrInvalidSnapshot, s.Status, got)
	}

	return &Game{board: s.Board, active: s.Active, status: s.Status}, nil
}

// ApplyMove places the active player's mark at (row, col) and advances the
// state machine. A rejected move leaves the game untouched.
func (g *Game) ApplyMove(row, col int) (MoveResult, error) {
	if !InBounds(row, col) {
		return MoveResult{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, row, col)
	}
	if g.status != StatusInProgress {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrGameAlreadyEnded, g.status)
	}
	if g.board[row][col] != None {
		return MoveResult{}, fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, row, col)
	}

	mark := g.active
	g.board[row][col] = mark

	switch outcome := CheckWinner(g.board); outcome {
	case OutcomeNone:
		g.active = g.active.Opponent()
	default:
		g.status = outcome.Status()
	}

	return MoveResult{
		Row:    row,
		Col:    col,
		Mark:   mark,
		Status: g.status,
		Active: g.active,
	}, nil
}

// Restart clears the board and gives the first move to Player1.
func (g *Game) Restart() Snapshot {
	g.board = Board{}
	g.active = Player1
	g.status = StatusInProgress
	return g.Snapshot()
}

// Snapshot returns a copy of the current state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{Board: g.board, Status: g.status, Active: g.active}
}

// Board returns a copy of the board.
func (g *Game) Board() Board {
	return g.board
}

// Status returns the current status.
func (g *Game) Status() Status {
	return g.status
}

// Active returns the player whose move is accepted next.
func (g *Game) Active() PlayerMark {
	return g.active
}

// IsOver reports whether the game reached a terminal state.
func (g *Game) IsOver() bool {
	return g.status.IsTerminal()
}

package game

import "fmt"

// PlayerMark is the content of a cell: empty or one of the two players.
type PlayerMark int

const (
	// Player marks
	None PlayerMark = iota
	Player1
	Player2
)

// Status is the state of a game session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPlayer1Won Status = "player1_won"
	StatusPlayer2Won Status = "player2_won"
	StatusTie        Status = "tie"
)

// Outcome is the result of CheckWinner.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayer1
	OutcomePlayer2
	OutcomeTie
)

// Board boundaries
const (
	Size = 3

	BorderMin = 0
	BorderMax = Size - 1

	lineLength = 3
)

// Symbol returns the symbol drawn for the mark.
func (m PlayerMark) Symbol() string {
	switch m {
	case Player1:
		return "X"
	case Player2:
		return "O"
	default:
		return ""
	}
}

// Number returns 1 or 2 for a player, 0 for an empty cell.
func (m PlayerMark) Number() int {
	if m.Valid() && m != None {
		return int(m)
	}
	return 0
}

func (m PlayerMark) String() string {
	switch m {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	case None:
		return "None"
	default:
		return fmt.Sprintf("PlayerMark(%d)", int(m))
	}
}

// Valid reports whether m is one of None, Player1 or Player2.
func (m PlayerMark) Valid() bool {
	return m == None || m == Player1 || m == Player2
}

// Opponent returns the other player.
func (m PlayerMark) Opponent() PlayerMark {
	if m == Player1 {
		return Player2
	}
	return Player1
}

// MarshalText encodes the mark as its symbol.
func (m PlayerMark) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid player mark %d", int(m))
	}
	return []byte(m.Symbol()), nil
}

// UnmarshalText decodes "X", "O" or "".
func (m *PlayerMark) UnmarshalText(text []byte) error {
	mark, err := ParseMark(string(text))
	if err != nil {
		return err
	}
	*m = mark
	return nil
}

// ParseMark parses a mark symbol.
func ParseMark(s string) (PlayerMark, error) {
	switch s {
	case "":
		return None, nil
	case "X":
		return Player1, nil
	case "O":
		return Player2, nil
	}
	return None, fmt.Errorf("invalid player mark %q", s)
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusPlayer1Won, StatusPlayer2Won, StatusTie:
		return true
	}
	return false
}

// IsTerminal reports whether no further moves are accepted.
func (s Status) IsTerminal() bool {
	return s == StatusPlayer1Won || s == StatusPlayer2Won || s == StatusTie
}

// Winner returns the winning player, or None for a tie or a running game.
func (s Status) Winner() PlayerMark {
	switch s {
	case StatusPlayer1Won:
		return Player1
	case StatusPlayer2Won:
		return Player2
	}
	return None
}

// Status maps an outcome onto the state machine.
func (o Outcome) Status() Status {
	switch o {
	case OutcomePlayer1:
		return StatusPlayer1Won
	case OutcomePlayer2:
		return StatusPlayer2Won
	case OutcomeTie:
		return StatusTie
	}
	return StatusInProgress
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomePlayer1:
		return "player1"
	case OutcomePlayer2:
		return "player2"
	case OutcomeTie:
		return "tie"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func outcomeOf(m PlayerMark) Outcome {
	switch m {
	case Player1:
		return OutcomePlayer1
	case Player2:
		return OutcomePlayer2
	}
	return OutcomeNone
}

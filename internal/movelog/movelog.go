package movelog

import (
	"ctchen222/tictactoe-hotseat/internal/game"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// DefaultFileName is the move log written next to the binary's working directory.
const DefaultFileName = "tictactoelog.txt"

// Log is an append-only, human readable record of one process' games.
type Log struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// Open truncates (or creates) the file at path and returns a Log appending to it.
func Open(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open move log %s: %w", path, err)
	}
	return &Log{w: f, c: f}, nil
}

// New returns a Log writing to w. A nil w discards every line.
func New(w io.Writer) *Log {
	if w == nil {
		w = io.Discard
	}
	return &Log{w: w}
}

// Close closes the underlying file, if any.
func (l *Log) Close() error {
	if l == nil || l.c == nil {
		return nil
	}
	return l.c.Close()
}

// GameStarted records the start of the process' first game.
func (l *Log) GameStarted() {
	l.line("Game starts")
}

// Resumed records a game picked up from the snapshot store. A finished
// game is followed by its result.
func (l *Log) Resumed(status game.Status) {
	l.line("Game resumes")
	l.Finished(status)
}

// Restarted records a restart.
func (l *Log) Restarted() {
	l.line("Game restarts")
}

// Placed records an accepted move. Coordinates are zero based and logged one based.
func (l *Log) Placed(player game.PlayerMark, row, col int) {
	l.line(fmt.Sprintf("%s places %s at (%d, %d)", player, player.Symbol(), row+1, col+1))
}

// InvalidPlacement records a move onto an occupied cell.
func (l *Log) InvalidPlacement(player game.PlayerMark, row, col int) {
	l.line(fmt.Sprintf("%s places invalid %s at (%d, %d)", player, player.Symbol(), row+1, col+1))
}

// Finished records the end of a game. Statuses that are not terminal are ignored.
func (l *Log) Finished(status game.Status) {
	switch status {
	case game.StatusTie:
		l.line("It's a tie!")
	case game.StatusPlayer1Won, game.StatusPlayer2Won:
		l.line(fmt.Sprintf("%s wins!", status.Winner()))
	}
}

func (l *Log) line(s string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := io.WriteString(l.w, s+"\n"); err != nil {
		slog.Error("failed to write move log", "error", err)
	}
}

package movelog

import (
	"bytes"
	"ctchen222/tictactoe-hotseat/internal/game"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_Lines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.GameStarted()
	l.Placed(game.Player1, 0, 0)
	l.InvalidPlacement(game.Player2, 0, 0)
	l.Placed(game.Player2, 2, 1)
	l.Finished(game.StatusInProgress)
	l.Finished(game.StatusPlayer1Won)
	l.Finished(game.StatusPlayer2Won)
	l.Finished(game.StatusTie)
	l.Restarted()
	l.Resumed(game.StatusInProgress)
	l.Resumed(game.StatusTie)

	want := "Game starts\n" +
		"Player 1 places X at (1, 1)\n" +
		"Player 2 places invalid O at (1, 1)\n" +
		"Player 2 places O at (3, 2)\n" +
		"Player 1 wins!\n" +
		"Player 2 wins!\n" +
		"It's a tie!\n" +
		"Game restarts\n" +
		"Game resumes\n" +
		"Game resumes\n" +
		"It's a tie!\n"
	assert.Equal(t, want, buf.String())
}

func TestOpen_TruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("left over from last run\n"), 0o644))

	l, err := Open(path)
	require.NoError(t, err)
	l.GameStarted()
	l.Placed(game.Player1, 1, 2)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Game starts\nPlayer 1 places X at (2, 3)\n", string(data))
}

func TestOpen_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.txt")

	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "log.txt"))
	assert.Error(t, err)
}

func TestNilLogIsSilent(t *testing.T) {
	var l *Log
	assert.NotPanics(t, func() {
		l.GameStarted()
		l.Placed(game.Player1, 0, 0)
	})
	assert.NoError(t, l.Close())
}

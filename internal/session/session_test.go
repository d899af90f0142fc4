package session

import (
	"bytes"
	"context"
	"ctchen222/tictactoe-hotseat/internal/events"
	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/movelog"
	"ctchen222/tictactoe-hotseat/internal/repository"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSession(t *testing.T) (*Session, *bytes.Buffer, repository.GameRepository) {
	t.Helper()
	var buf bytes.Buffer
	repo := repository.NewMemoryGameRepository()
	s, err := Open(context.Background(), "test", repo, movelog.New(&buf))
	require.NoError(t, err)
	return s, &buf, repo
}

func TestOpen(t *testing.T) {
	t.Run("Starts a fresh game and logs it", func(t *testing.T) {
		s, buf, repo := newTestSession(t)

		assert.Equal(t, "test", s.ID)
		assert.Equal(t, game.NewGame().Snapshot(), s.Snapshot())
		assert.Equal(t, "Game starts\n", buf.String())

		stored, err := repo.FindByID(context.Background(), "test")
		require.NoError(t, err)
		assert.Equal(t, s.Snapshot(), *stored)
	})

	t.Run("Generates an id when none is given", func(t *testing.T) {
		s, err := Open(context.Background(), "", nil, nil)
		require.NoError(t, err)
		assert.Len(t, s.ID, 36)
	})

	t.Run("Resumes a stored game", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryGameRepository()
		g := game.NewGame()
		_, err := g.ApplyMove(1, 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, "resume", g.Snapshot()))

		var buf bytes.Buffer
		s, err := Open(ctx, "resume", repo, movelog.New(&buf))

		require.NoError(t, err)
		assert.Equal(t, g.Snapshot(), s.Snapshot())
		assert.Equal(t, "Game resumes\n", buf.String())
	})

	t.Run("Resuming a finished game logs its result", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryGameRepository()
		g := game.NewGame()
		for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
			_, err := g.ApplyMove(m[0], m[1])
			require.NoError(t, err)
		}
		require.NoError(t, repo.Save(ctx, "done", g.Snapshot()))

		var buf bytes.Buffer
		s, err := Open(ctx, "done", repo, movelog.New(&buf))

		require.NoError(t, err)
		assert.Equal(t, game.StatusPlayer1Won, s.Snapshot().Status)
		assert.Equal(t, "Game resumes\nPlayer 1 wins!\n", buf.String())
	})

	t.Run("Discards an invalid stored game", func(t *testing.T) {
		ctx := context.Background()
		repo := repository.NewMemoryGameRepository()
		require.NoError(t, repo.Save(ctx, "bad", game.Snapshot{Status: game.StatusPlayer1Won, Active: game.Player1}))

		s, err := Open(ctx, "bad", repo, nil)

		require.NoError(t, err)
		assert.Equal(t, game.NewGame().Snapshot(), s.Snapshot())
	})

	t.Run("Fails when the store cannot be read", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockGameRepository(ctrl)
		repo.EXPECT().FindByID(gomock.Any(), "broken").Return(nil, errors.New("connection refused"))

		_, err := Open(context.Background(), "broken", repo, nil)

		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestSession_Click(t *testing.T) {
	t.Run("Accepted moves are logged and stored", func(t *testing.T) {
		ctx := context.Background()
		s, buf, repo := newTestSession(t)

		res, err := s.Click(ctx, 0, 0)

		require.NoError(t, err)
		assert.Equal(t, game.MoveResult{Row: 0, Col: 0, Mark: game.Player1, Status: game.StatusInProgress, Active: game.Player2}, res)
		assert.Equal(t, "Game starts\nPlayer 1 places X at (1, 1)\n", buf.String())
		stored, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Snapshot(), *stored)
	})

	t.Run("Occupied cell is logged as invalid and changes nothing", func(t *testing.T) {
		ctx := context.Background()
		s, buf, _ := newTestSession(t)
		_, err := s.Click(ctx, 0, 0)
		require.NoError(t, err)
		before := s.Snapshot()

		_, err = s.Click(ctx, 0, 0)

		require.ErrorIs(t, err, game.ErrCellOccupied)
		assert.Equal(t, before, s.Snapshot())
		assert.Equal(t, "Game starts\nPlayer 1 places X at (1, 1)\nPlayer 2 places invalid O at (1, 1)\n", buf.String())
	})

	t.Run("Out of range is rejected without a log line", func(t *testing.T) {
		s, buf, _ := newTestSession(t)

		_, err := s.Click(context.Background(), 3, 0)

		require.ErrorIs(t, err, game.ErrInvalidCoordinate)
		assert.Equal(t, "Game starts\n", buf.String())
	})

	t.Run("Win is logged and later moves are rejected", func(t *testing.T) {
		ctx := context.Background()
		s, buf, _ := newTestSession(t)
		for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
			_, err := s.Click(ctx, m[0], m[1])
			require.NoError(t, err)
		}

		_, err := s.Click(ctx, 2, 2)

		require.ErrorIs(t, err, game.ErrGameAlreadyEnded)
		assert.Equal(t, game.StatusPlayer1Won, s.Snapshot().Status)
		assert.Equal(t, "Game starts\n"+
			"Player 1 places X at (1, 1)\n"+
			"Player 2 places O at (2, 1)\n"+
			"Player 1 places X at (1, 2)\n"+
			"Player 2 places O at (2, 2)\n"+
			"Player 1 places X at (1, 3)\n"+
			"Player 1 wins!\n", buf.String())
	})

	t.Run("Tie is logged", func(t *testing.T) {
		ctx := context.Background()
		s, buf, _ := newTestSession(t)
		moves := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}}
		var res game.MoveResult
		for _, m := range moves {
			var err error
			res, err = s.Click(ctx, m[0], m[1])
			require.NoError(t, err)
		}

		assert.Equal(t, game.StatusTie, res.Status)
		assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("Player 1 places X at (3, 3)\nIt's a tie!\n")))
	})

	t.Run("Store failures do not fail the move", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := repository.NewMockGameRepository(ctrl)
		repo.EXPECT().FindByID(gomock.Any(), "flaky").Return(nil, repository.ErrGameNotFound)
		repo.EXPECT().Save(gomock.Any(), "flaky", gomock.Any()).Return(nil)
		s, err := Open(context.Background(), "flaky", repo, nil)
		require.NoError(t, err)

		repo.EXPECT().Save(gomock.Any(), "flaky", gomock.Any()).Return(errors.New("redis down"))
		res, err := s.Click(context.Background(), 1, 1)

		require.NoError(t, err)
		assert.Equal(t, game.Player1, res.Mark)
	})
}

func TestSession_Restart(t *testing.T) {
	ctx := context.Background()
	s, buf, _ := newTestSession(t)
	for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
		_, err := s.Click(ctx, m[0], m[1])
		require.NoError(t, err)
	}

	snap := s.Restart(ctx)

	assert.Equal(t, game.NewGame().Snapshot(), snap)
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("Player 1 wins!\nGame restarts\n")))
	_, err := s.Click(ctx, 2, 2)
	assert.NoError(t, err)
}

func TestSession_Subscribe(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSession(t)
	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	_, err := s.Click(ctx, 2, 0)
	require.NoError(t, err)
	_, err = s.Click(ctx, 2, 0)
	require.Error(t, err)
	s.Restart(ctx)

	moved := <-ch
	assert.Equal(t, events.TypeMoveApplied, moved.Type)
	snap, err := moved.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, game.Player1, snap.Board[2][0])

	restarted := <-ch
	assert.Equal(t, events.TypeGameRestarted, restarted.Type)
	assert.Empty(t, ch, "rejected moves publish nothing")
}

func TestSession_Close(t *testing.T) {
	t.Run("Keeps a game in progress", func(t *testing.T) {
		ctx := context.Background()
		s, _, repo := newTestSession(t)
		_, err := s.Click(ctx, 1, 1)
		require.NoError(t, err)

		require.NoError(t, s.Close(ctx))

		stored, err := repo.FindByID(ctx, "test")
		require.NoError(t, err)
		assert.Equal(t, s.Snapshot(), *stored)
	})

	t.Run("Removes a finished game", func(t *testing.T) {
		ctx := context.Background()
		s, _, repo := newTestSession(t)
		for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
			_, err := s.Click(ctx, m[0], m[1])
			require.NoError(t, err)
		}

		require.NoError(t, s.Close(ctx))

		_, err := repo.FindByID(ctx, "test")
		assert.ErrorIs(t, err, repository.ErrGameNotFound)

		var buf bytes.Buffer
		next, err := Open(ctx, "test", repo, movelog.New(&buf))
		require.NoError(t, err)
		assert.Equal(t, game.NewGame().Snapshot(), next.Snapshot())
		assert.Equal(t, "Game starts\n", buf.String())
	})

	t.Run("Reports store failures", func(t *testing.T) {
		ctx := context.Background()
		ctrl := gomock.NewController(t)
		repo := repository.NewMockGameRepository(ctrl)
		repo.EXPECT().FindByID(gomock.Any(), "tie").Return(nil, repository.ErrGameNotFound)
		repo.EXPECT().Save(gomock.Any(), "tie", gomock.Any()).Return(nil).AnyTimes()
		s, err := Open(ctx, "tie", repo, nil)
		require.NoError(t, err)
		for _, m := range [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 1}, {1, 0}, {1, 2}, {2, 1}, {2, 0}, {2, 2}} {
			_, err := s.Click(ctx, m[0], m[1])
			require.NoError(t, err)
		}

		repo.EXPECT().Delete(gomock.Any(), "tie").Return(errors.New("redis down"))
		err = s.Close(ctx)

		assert.ErrorContains(t, err, "redis down")
	})
}

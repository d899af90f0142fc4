package session

import (
	"context"
	"ctchen222/tictactoe-hotseat/internal/events"
	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/movelog"
	"ctchen222/tictactoe-hotseat/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("session")
	meter  = otel.Meter("session")
)

// Session drives a single game for a UI. Every call is handled to
// completion before the next one starts.
type Session struct {
	ID string

	mu    sync.Mutex
	game  *game.Game
	repo  repository.GameRepository
	log   *movelog.Log
	bus   *events.Bus
	moves metric.Int64Counter
	ended metric.Int64Counter
}

// Open resumes the stored game for id, or starts a new one when nothing is
// stored. An empty id gets a fresh UUID.
func Open(ctx context.Context, id string, repo repository.GameRepository, log *movelog.Log) (*Session, error) {
	ctx, span := tracer.Start(ctx, "session.Open")
	defer span.End()

	if id == "" {
		id = uuid.New().String()
	}
	if repo == nil {
		repo = repository.NewMemoryGameRepository()
	}
	span.SetAttributes(attribute.String("session.id", id))

	s := &Session{
		ID:   id,
		repo: repo,
		log:  log,
		bus:  events.NewBus(),
	}
	if err := s.initMetrics(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	resumed := false
	stored, err := repo.FindByID(ctx, id)
	switch {
	case err == nil:
		g, err := game.FromSnapshot(*stored)
		if err != nil {
			slog.WarnContext(ctx, "discarding invalid stored game", "session.id", id, "error", err)
			s.game = game.NewGame()
			break
		}
		s.game = g
		resumed = true
		slog.InfoContext(ctx, "resumed stored game", "session.id", id, "game.status", g.Status())
	case errors.Is(err, repository.ErrGameNotFound):
		s.game = game.NewGame()
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load stored game")
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}

	if resumed {
		s.log.Resumed(s.game.Status())
	} else {
		s.log.GameStarted()
	}
	s.persist(ctx)
	return s, nil
}

func (s *Session) initMetrics() error {
	var err error
	s.moves, err = meter.Int64Counter("tictactoe.moves",
		metric.WithDescription("Moves attempted, by validity"),
		metric.WithUnit("{move}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create moves counter: %w", err)
	}
	s.ended, err = meter.Int64Counter("tictactoe.games.finished",
		metric.WithDescription("Games that reached a terminal state, by outcome"),
		metric.WithUnit("{game}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create games counter: %w", err)
	}
	return nil
}

// Click applies a move for the active player at (row, col).
func (s *Session) Click(ctx context.Context, row, col int) (game.MoveResult, error) {
	ctx, span := tracer.Start(ctx, "session.Click", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.game.Active()
	res, err := s.game.ApplyMove(row, col)
	if err != nil {
		s.moves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("move.valid", false)))
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")

		if errors.Is(err, game.ErrCellOccupied) {
			s.log.InvalidPlacement(player, row, col)
		}
		slog.WarnContext(ctx, "rejected move", "session.id", s.ID, "player", player.Number(), "move.row", row, "move.col", col, "error", err)
		return game.MoveResult{}, err
	}

	s.moves.Add(ctx, 1, metric.WithAttributes(attribute.Bool("move.valid", true)))
	span.SetAttributes(attribute.Bool("move.valid", true), attribute.String("game.status", string(res.Status)))
	s.log.Placed(res.Mark, row, col)
	slog.InfoContext(ctx, "applied move", "session.id", s.ID, "player", res.Mark.Number(), "move.row", row, "move.col", col, "game.status", res.Status)

	if res.Status.IsTerminal() {
		s.log.Finished(res.Status)
		s.ended.Add(ctx, 1, metric.WithAttributes(attribute.String("game.outcome", string(res.Status))))
		slog.InfoContext(ctx, "game finished", "session.id", s.ID, "game.status", res.Status)
	}

	snapshot := s.game.Snapshot()
	s.persist(ctx)
	s.publish(ctx, events.TypeMoveApplied, events.MoveAppliedPayload{SessionID: s.ID, Move: res, Snapshot: snapshot})
	return res, nil
}

// Restart starts a new game in the same session. It is accepted in any state.
func (s *Session) Restart(ctx context.Context) game.Snapshot {
	ctx, span := tracer.Start(ctx, "session.Restart", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.game.Restart()
	s.log.Restarted()
	slog.InfoContext(ctx, "game restarted", "session.id", s.ID)

	s.persist(ctx)
	s.publish(ctx, events.TypeGameRestarted, events.GameRestartedPayload{SessionID: s.ID, Snapshot: snapshot})
	return snapshot
}

// Close ends the session. A finished game is removed from the store so
// that the next Open with the same id starts a new one; a game in progress
// stays stored to be resumed.
func (s *Session) Close(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "session.Close", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.IsOver() {
		return nil
	}
	if err := s.repo.Delete(ctx, s.ID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete finished game")
		return fmt.Errorf("failed to delete finished game %s: %w", s.ID, err)
	}
	slog.InfoContext(ctx, "removed finished game from store", "session.id", s.ID, "game.status", s.game.Status())
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Subscribe returns a channel receiving an event after every state change.
func (s *Session) Subscribe() (<-chan events.Event, func()) {
	return s.bus.Subscribe(16)
}

// persist writes the current snapshot to the repository. Failures are
// logged; the in-memory game stays authoritative.
func (s *Session) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.ID, s.game.Snapshot()); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		slog.ErrorContext(ctx, "failed to persist game", "session.id", s.ID, "error", err)
	}
}

func (s *Session) publish(ctx context.Context, eventType string, payload any) {
	event, err := events.New(eventType, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "session.id", s.ID, "event.type", eventType, "error", err)
		return
	}
	s.bus.Publish(event)
}

package repository

import (
	"context"
	"ctchen222/tictactoe-hotseat/internal/game"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=game_repository.go -destination=mock_game_repository.go -package=repository

var tracer = otel.Tracer("repository.game")

// ErrGameNotFound is returned when no snapshot is stored under an id.
var ErrGameNotFound = errors.New("game not found")

// Hash fields of a stored session.
const (
	FieldBoard     = "board"
	FieldStatus    = "status"
	FieldActive    = "active"
	FieldUpdatedAt = "updated_at"
)

// DefaultTTL bounds how long an abandoned session stays in Redis.
const DefaultTTL = 24 * time.Hour

// GameRepository stores the current snapshot of a session. It never keeps
// previous states.
type GameRepository interface {
	Save(ctx context.Context, id string, snapshot game.Snapshot) error
	FindByID(ctx context.Context, id string) (*game.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type redisGameRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewGameRepository creates a new Redis-based GameRepository. A ttl of zero uses DefaultTTL.
func NewGameRepository(rdb *redis.Client, ttl time.Duration) GameRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &redisGameRepository{rdb: rdb, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Save overwrites the stored snapshot and refreshes its TTL.
func (r *redisGameRepository) Save(ctx context.Context, id string, snapshot game.Snapshot) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Save", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("game.status", string(snapshot.Status)),
	))
	defer span.End()

	boardJSON, err := json.Marshal(snapshot.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	key := sessionKey(id)
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, key,
		FieldBoard, boardJSON,
		FieldStatus, string(snapshot.Status),
		FieldActive, snapshot.Active.Symbol(),
		FieldUpdatedAt, time.Now().UTC().Format(time.RFC3339),
	)
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save game in redis: %w", err)
	}
	return nil
}

// FindByID retrieves the stored snapshot from Redis.
func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*game.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get game state from redis: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrGameNotFound
	}

	var board game.Board
	if err := json.Unmarshal([]byte(data[FieldBoard]), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board: %w", err)
	}
	active, err := game.ParseMark(data[FieldActive])
	if err != nil {
		return nil, fmt.Errorf("failed to parse active player: %w", err)
	}

	return &game.Snapshot{
		Board:  board,
		Status: game.Status(data[FieldStatus]),
		Active: active,
	}, nil
}

// Delete removes the stored snapshot.
func (r *redisGameRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	if err := r.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete game from redis: %w", err)
	}
	return nil
}

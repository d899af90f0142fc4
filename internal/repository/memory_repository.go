package repository

import (
	"context"
	"ctchen222/tictactoe-hotseat/internal/game"
	"sync"
)

type memoryGameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Snapshot
}

// NewMemoryGameRepository creates a process-local GameRepository.
func NewMemoryGameRepository() GameRepository {
	return &memoryGameRepository{games: make(map[string]game.Snapshot)}
}

func (r *memoryGameRepository) Save(_ context.Context, id string, snapshot game.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[id] = snapshot
	return nil
}

func (r *memoryGameRepository) FindByID(_ context.Context, id string) (*game.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot, ok := r.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return &snapshot, nil
}

func (r *memoryGameRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, id)
	return nil
}

package events

import (
	"ctchen222/tictactoe-hotseat/internal/game"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Event types
const (
	TypeMoveApplied   = "move_applied"
	TypeGameRestarted = "game_restarted"
)

// Event represents a change of the session, fanned out to every subscriber.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// MoveAppliedPayload is the payload for the "move_applied" event.
type MoveAppliedPayload struct {
	SessionID string          `json:"session_id"`
	Move      game.MoveResult `json:"move"`
	Snapshot  game.Snapshot   `json:"snapshot"`
}

// GameRestartedPayload is the payload for the "game_restarted" event.
type GameRestartedPayload struct {
	SessionID string        `json:"session_id"`
	Snapshot  game.Snapshot `json:"snapshot"`
}

// New builds an event with a JSON encoded payload.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: data}, nil
}

// Snapshot extracts the post-change snapshot carried by every event type.
func (e Event) Snapshot() (game.Snapshot, error) {
	var payload struct {
		Snapshot game.Snapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to unmarshal %s payload: %w", e.Type, err)
	}
	return payload.Snapshot, nil
}

// Bus is an in-process publish/subscribe fan-out.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber. The returned function unsubscribes and
// closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

// Publish delivers e to every subscriber without blocking. Subscribers whose
// buffer is full miss the event.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("dropping event for slow subscriber", "subscriber.id", id, "event.type", e.Type)
		}
	}
}

package proto

import (
	"ctchen222/tictactoe-hotseat/internal/game"
	"ctchen222/tictactoe-hotseat/internal/validator"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientToServerMessage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		msg     ClientToServerMessage
		wantErr bool
	}{
		{name: "move", msg: ClientToServerMessage{Type: TypeMove, Position: []int{1, 2}}},
		{name: "restart", msg: ClientToServerMessage{Type: TypeRestart}},
		{name: "move without position", msg: ClientToServerMessage{Type: TypeMove}, wantErr: true},
		{name: "move with short position", msg: ClientToServerMessage{Type: TypeMove, Position: []int{1}}, wantErr: true},
		{name: "move with empty position", msg: ClientToServerMessage{Type: TypeMove, Position: []int{}}, wantErr: true},
		{name: "move with long position", msg: ClientToServerMessage{Type: TypeMove, Position: []int{1, 2, 0}}, wantErr: true},
		{name: "unknown type", msg: ClientToServerMessage{Type: "undo"}, wantErr: true},
		{name: "missing type", msg: ClientToServerMessage{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.GetValidator().Struct(tt.msg)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotEmpty(t, validator.Describe(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewUpdate(t *testing.T) {
	g := game.NewGame()
	for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		_, err := g.ApplyMove(m[0], m[1])
		require.NoError(t, err)
	}

	data, err := json.Marshal(NewUpdate(g.Snapshot()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"update","board":[["X","X",""],["O","O",""],["","",""]],"status":"in_progress","next":"X"}`, string(data))

	_, err = g.ApplyMove(0, 2)
	require.NoError(t, err)
	msg := NewUpdate(g.Snapshot())
	assert.Equal(t, game.Player1, msg.Winner)
	assert.Equal(t, game.None, msg.Next)
}

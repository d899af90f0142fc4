package response

import (
	"ctchen222/tictactoe-hotseat/internal/game"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromGameError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: (3, 0)", game.ErrInvalidCoordinate), http.StatusBadRequest},
		{fmt.Errorf("%w: (0, 0)", game.ErrCellOccupied), http.StatusConflict},
		{fmt.Errorf("%w: tie", game.ErrGameAlreadyEnded), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := FromGameError(tt.err)
			assert.Equal(t, tt.want, got.Code)
			assert.False(t, got.Success)
			assert.Equal(t, tt.err.Error(), got.Error())
		})
	}
}

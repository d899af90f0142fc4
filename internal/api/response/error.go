package response

import (
	"ctchen222/tictactoe-hotseat/internal/game"
	"errors"
	"net/http"
)

// Error is an API error together with the HTTP status it is reported with.
type Error struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Extras  string `json:"extras"`
}

func (e Error) Error() string {
	return e.Extras
}

func NewError(code int, message string) Error {
	return Error{
		Success: false,
		Code:    code,
		Extras:  message,
	}
}

// FromGameError maps errors returned by a game move to an API error.
func FromGameError(err error) Error {
	switch {
	case errors.Is(err, game.ErrInvalidCoordinate):
		return NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrCellOccupied), errors.Is(err, game.ErrGameAlreadyEnded):
		return NewError(http.StatusConflict, err.Error())
	default:
		return NewError(http.StatusInternalServerError, err.Error())
	}
}

package controller

import (
	"ctchen222/tictactoe-hotseat/internal/api/models"
	"ctchen222/tictactoe-hotseat/internal/api/response"
	"ctchen222/tictactoe-hotseat/internal/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameController handles game-related HTTP requests.
type GameController struct {
	session *session.Session
}

// NewGameController creates a new GameController.
func NewGameController(s *session.Session) *GameController {
	return &GameController{
		session: s,
	}
}

// GetGame returns the current state.
func (gc *GameController) GetGame(c *gin.Context) {
	response.SuccessResponse(c, models.NewGameView(gc.session.ID, gc.session.Snapshot()))
}

// Move applies a move for the active player.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := gc.session.Click(c.Request.Context(), *req.Row, *req.Col)
	if err != nil {
		apiErr := response.FromGameError(err)
		response.ErrorResponse(c, apiErr.Code, apiErr.Extras)
		return
	}

	response.SuccessResponse(c, models.MoveResponse{
		Move: res,
		Game: models.NewGameView(gc.session.ID, gc.session.Snapshot()),
	})
}

// Restart starts a new game.
func (gc *GameController) Restart(c *gin.Context) {
	snapshot := gc.session.Restart(c.Request.Context())
	response.SuccessResponse(c, models.NewGameView(gc.session.ID, snapshot))
}

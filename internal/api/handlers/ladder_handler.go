package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/service"
)

type LadderHandler struct {
	players *service.PlayerService
}

func NewLadderHandler(players *service.PlayerService) *LadderHandler {
	return &LadderHandler{players: players}
}

// Standings 전체 래더 순위표
// GET /api/ladders
func (h *LadderHandler) Standings(c *gin.Context) {
	standings, err := h.players.Standings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, standings)
}

// Get 래더 한 개의 순위표
// GET /api/ladders/:name
func (h *LadderHandler) Get(c *gin.Context) {
	standing, err := h.players.Ladder(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, standing)
}

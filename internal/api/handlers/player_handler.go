package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/api/middleware"
	"github.com/pool-ladder/pool-ladder-backend/internal/service"
)

type PlayerHandler struct {
	players     *service.PlayerService
	eligibility *service.EligibilityService
}

func NewPlayerHandler(players *service.PlayerService, eligibility *service.EligibilityService) *PlayerHandler {
	return &PlayerHandler{players: players, eligibility: eligibility}
}

// Get 플레이어 조회
// GET /api/players/:id
func (h *PlayerHandler) Get(c *gin.Context) {
	player, err := h.players.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// Targets 현재 도전 가능한 상대 목록
// GET /api/players/:id/targets
func (h *PlayerHandler) Targets(c *gin.Context) {
	playerID := c.Param("id")

	// 자신의 대상 목록만 볼 수 있다 (관리자는 예외)
	if playerID != middleware.PlayerID(c) && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only view your own targets"})
		return
	}

	targets, err := h.eligibility.TargetsFor(playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

type vacationRequest struct {
	On    bool    `json:"on"`
	Until *string `json:"until"`
}

// SetVacation 휴가 모드 설정/해제 (본인 또는 관리자)
// PUT /api/players/:id/vacation
func (h *PlayerHandler) SetVacation(c *gin.Context) {
	playerID := c.Param("id")
	if playerID != middleware.PlayerID(c) && !middleware.IsAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only change your own vacation mode"})
		return
	}

	var req vacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	until, err := parseOptionalTime(req.Until)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "until must be RFC3339"})
		return
	}

	player, err := h.players.SetVacation(playerID, req.On, until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

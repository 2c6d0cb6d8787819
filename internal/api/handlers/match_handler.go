package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/api/middleware"
	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/internal/service"
)

type MatchHandler struct {
	matches    *repository.MatchRepository
	resolution *service.ResolutionService
}

func NewMatchHandler(matches *repository.MatchRepository, resolution *service.ResolutionService) *MatchHandler {
	return &MatchHandler{matches: matches, resolution: resolution}
}

// Get 매치 조회
// GET /api/matches/:id
func (h *MatchHandler) Get(c *gin.Context) {
	match, err := h.matches.FindByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if match == nil {
		respondError(c, service.ErrMatchNotFound)
		return
	}
	c.JSON(http.StatusOK, match)
}

// Recent 최근 완료된 매치 목록
// GET /api/matches/recent
func (h *MatchHandler) Recent(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	matches, err := h.matches.FindRecent(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// Scheduled 아직 결과가 보고되지 않은 매치 목록 (관리자 대시보드용)
// GET /api/admin/matches/scheduled
func (h *MatchHandler) Scheduled(c *gin.Context) {
	matches, err := h.matches.FindScheduled()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// ByPlayer 플레이어의 매치 이력
// GET /api/players/:id/matches
func (h *MatchHandler) ByPlayer(c *gin.Context) {
	matches, err := h.matches.FindByPlayer(c.Param("id"), 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// Report 매치 결과 보고. 당사자만 가능하며 포지션이 즉시 이동한다.
// POST /api/matches/:id/result
func (h *MatchHandler) Report(c *gin.Context) {
	var req models.ReportMatchResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winnerId and score are required"})
		return
	}

	matchID := c.Param("id")
	reporterID := middleware.PlayerID(c)

	if !middleware.IsAdmin(c) {
		match, err := h.matches.FindByID(matchID)
		if err != nil {
			respondError(c, err)
			return
		}
		if match == nil {
			respondError(c, service.ErrMatchNotFound)
			return
		}
		if !match.Participant(reporterID) {
			respondError(c, service.ErrNotMatchParticipant)
			return
		}
	}

	match, err := h.resolution.Resolve(c.Request.Context(), matchID, reporterID, &req, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

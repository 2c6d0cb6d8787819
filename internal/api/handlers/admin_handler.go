package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/api/middleware"
	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/service"
)

// AdminHandler 리그 운영자 전용 기능
type AdminHandler struct {
	players    *service.PlayerService
	promotion  *service.PromotionService
	rating     *service.RatingService
	resolution *service.ResolutionService
	challenges *service.ChallengeService
}

func NewAdminHandler(
	players *service.PlayerService,
	promotion *service.PromotionService,
	rating *service.RatingService,
	resolution *service.ResolutionService,
	challenges *service.ChallengeService,
) *AdminHandler {
	return &AdminHandler{
		players:    players,
		promotion:  promotion,
		rating:     rating,
		resolution: resolution,
		challenges: challenges,
	}
}

// CreatePlayer 플레이어 등록 (레이팅으로 래더 배정, 맨 아래 포지션)
// POST /api/admin/players
func (h *AdminHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	player, err := h.players.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

// RemovePlayer 래더에서 제외 (아래 전원 한 칸씩 상승)
// DELETE /api/admin/players/:id
func (h *AdminHandler) RemovePlayer(c *gin.Context) {
	if err := h.players.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

type setPositionRequest struct {
	Position int `json:"position" binding:"required"`
}

// SetPosition 수동 포지션 조정. 사이의 전원이 밀려 연속성이 유지된다.
// PUT /api/admin/players/:id/position
func (h *AdminHandler) SetPosition(c *gin.Context) {
	var req setPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "position is required"})
		return
	}

	moved, err := h.players.SetPosition(c.Request.Context(), c.Param("id"), req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

type suspensionRequest struct {
	Suspended bool    `json:"suspended"`
	Reason    *string `json:"reason"`
	Until     *string `json:"until"`
}

// SetSuspension 출전 정지 설정/해제
// PUT /api/admin/players/:id/suspension
func (h *AdminHandler) SetSuspension(c *gin.Context) {
	var req suspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	until, err := parseOptionalTime(req.Until)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "until must be RFC3339"})
		return
	}

	player, err := h.players.SetSuspension(c.Param("id"), req.Suspended, req.Reason, until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

type immunityRequest struct {
	Until *string `json:"until"`
}

// GrantImmunity 면책 부여 (기본 기간 또는 명시 기한)
// POST /api/admin/players/:id/immunity
func (h *AdminHandler) GrantImmunity(c *gin.Context) {
	var req immunityRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	until, err := parseOptionalTime(req.Until)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "until must be RFC3339"})
		return
	}

	player, err := h.players.GrantImmunity(c.Param("id"), until)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// ClearImmunity 면책 해제
// DELETE /api/admin/players/:id/immunity
func (h *AdminHandler) ClearImmunity(c *gin.Context) {
	player, err := h.players.ClearImmunity(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// Reindex 래더 포지션을 1..N으로 복구
// POST /api/admin/ladders/:name/reindex
func (h *AdminHandler) Reindex(c *gin.Context) {
	moved, err := h.promotion.Reindex(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

// Sweep 래더 승격 스윕 수동 실행
// POST /api/admin/ladders/:name/sweep
func (h *AdminHandler) Sweep(c *gin.Context) {
	promoted, err := h.promotion.Sweep(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promoted": promoted})
}

// PromotePlayer 수동 승격 (레이팅 무관, 한 단계)
// POST /api/admin/players/:id/promote
func (h *AdminHandler) PromotePlayer(c *gin.Context) {
	player, err := h.promotion.PromotePlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

type ratingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// UpdateRating 레이팅 갱신 후 승격 스윕
// PUT /api/admin/players/:id/rating
func (h *AdminHandler) UpdateRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating is required"})
		return
	}

	player, err := h.rating.UpdateRating(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// ImportRatings 이메일 기준 일괄 레이팅 반영
// POST /api/admin/ratings/import
func (h *AdminHandler) ImportRatings(c *gin.Context) {
	var updates []models.RatingUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.rating.BulkImport(c.Request.Context(), updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ReportResult 관리자 결과 보고. 승자에게 면책을 줄 수 있다.
// POST /api/admin/matches/:id/result
func (h *AdminHandler) ReportResult(c *gin.Context) {
	var req struct {
		models.ReportMatchResultRequest
		GrantImmunity bool `json:"grantImmunity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "winnerId and score are required"})
		return
	}

	match, err := h.resolution.Resolve(c.Request.Context(), c.Param("id"), middleware.PlayerID(c), &req.ReportMatchResultRequest, req.GrantImmunity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// ReverseMatch 완료된 매치를 정확히 되돌린다
// POST /api/admin/matches/:id/reverse
func (h *AdminHandler) ReverseMatch(c *gin.Context) {
	if err := h.resolution.Reverse(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reversed": true})
}

// ForfeitChallenge 도전 몰수 처리
// POST /api/admin/challenges/:id/forfeit
func (h *AdminHandler) ForfeitChallenge(c *gin.Context) {
	var req cancelRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge, err := h.challenges.Forfeit(c.Param("id"), middleware.PlayerID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

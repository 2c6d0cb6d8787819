package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/api/middleware"
	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/service"
)

type ChallengeHandler struct {
	challenges *service.ChallengeService
}

func NewChallengeHandler(challenges *service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

// Create 도전 생성
// POST /api/challenges
func (h *ChallengeHandler) Create(c *gin.Context) {
	var req models.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// 관리자가 아니면 자기 이름으로만 도전할 수 있다
	isAdmin := middleware.IsAdmin(c)
	if !isAdmin && req.ChallengerID != middleware.PlayerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "can only challenge as yourself"})
		return
	}

	challenge, err := h.challenges.Create(&req, isAdmin && req.ChallengerID != middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

// Get 도전 조회
// GET /api/challenges/:id
func (h *ChallengeHandler) Get(c *gin.Context) {
	challenge, err := h.challenges.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// Mine 내 미해결 도전 목록
// GET /api/challenges/mine
func (h *ChallengeHandler) Mine(c *gin.Context) {
	challenges, err := h.challenges.ListForPlayer(middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// Sent 내가 보낸 미해결 도전 목록
// GET /api/challenges/sent
func (h *ChallengeHandler) Sent(c *gin.Context) {
	challenges, err := h.challenges.ListSent(middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// Pending 내게 온 응답 대기 도전 목록
// GET /api/challenges/pending
func (h *ChallengeHandler) Pending(c *gin.Context) {
	challenges, err := h.challenges.ListPendingForDefender(middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

type respondRequest struct {
	Note       *string `json:"note"`
	AgreedDate *string `json:"agreedDate"`
}

// Accept 도전 수락
// POST /api/challenges/:id/accept
func (h *ChallengeHandler) Accept(c *gin.Context) {
	var req respondRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	agreedDate, err := parseOptionalTime(req.AgreedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agreedDate must be RFC3339"})
		return
	}

	challenge, err := h.challenges.Accept(c.Param("id"), middleware.PlayerID(c), req.Note, agreedDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// Decline 도전 거절
// POST /api/challenges/:id/decline
func (h *ChallengeHandler) Decline(c *gin.Context) {
	var req respondRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge, err := h.challenges.Decline(c.Param("id"), middleware.PlayerID(c), req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// Counter 역제안
// POST /api/challenges/:id/counter
func (h *ChallengeHandler) Counter(c *gin.Context) {
	var req models.CounterProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge, err := h.challenges.CounterPropose(c.Param("id"), middleware.PlayerID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// AcceptCounter 역제안 수락 (도전자)
// POST /api/challenges/:id/counter/accept
func (h *ChallengeHandler) AcceptCounter(c *gin.Context) {
	var req respondRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	agreedDate, err := parseOptionalTime(req.AgreedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agreedDate must be RFC3339"})
		return
	}

	challenge, err := h.challenges.AcceptCounter(c.Param("id"), middleware.PlayerID(c), agreedDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// RejectCounter 역제안 거부 (도전자, 도전 전체 취소)
// POST /api/challenges/:id/counter/reject
func (h *ChallengeHandler) RejectCounter(c *gin.Context) {
	challenge, err := h.challenges.RejectCounter(c.Param("id"), middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

type scheduleRequest struct {
	Date string `json:"date" binding:"required"`
}

// Schedule 수락된 도전에 날짜 확정
// POST /api/challenges/:id/schedule
func (h *ChallengeHandler) Schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	date, err := parseOptionalTime(&req.Date)
	if err != nil || date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC3339"})
		return
	}

	challenge, err := h.challenges.Schedule(c.Param("id"), middleware.PlayerID(c), *date, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel 도전 취소
// POST /api/challenges/:id/cancel
func (h *ChallengeHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	challenge, err := h.challenges.Cancel(c.Param("id"), middleware.PlayerID(c), req.Reason, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}

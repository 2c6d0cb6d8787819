package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/api/middleware"
	"github.com/pool-ladder/pool-ladder-backend/internal/service"
	"github.com/pool-ladder/pool-ladder-backend/pkg/jwt"
)

type AuthHandler struct {
	players    *service.PlayerService
	jwtManager *jwt.JWTManager
}

func NewAuthHandler(players *service.PlayerService, jwtManager *jwt.JWTManager) *AuthHandler {
	return &AuthHandler{players: players, jwtManager: jwtManager}
}

type loginRequest struct {
	Email string `json:"email" binding:"required,email"`
	PIN   string `json:"pin" binding:"required"`
}

// Login 이메일+PIN으로 로그인하고 JWT 발급
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and pin are required"})
		return
	}

	player, err := h.players.Authenticate(req.Email, req.PIN)
	if err != nil {
		respondError(c, err)
		return
	}

	email := ""
	if player.Email != nil {
		email = *player.Email
	}

	token, err := h.jwtManager.Generate(player.ID, player.FullName(), email, player.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"player": player,
	})
}

// Me 현재 인증된 플레이어 조회
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	player, err := h.players.GetByID(middleware.PlayerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

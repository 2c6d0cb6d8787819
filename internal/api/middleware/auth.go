package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/pkg/jwt"
)

const (
	ContextPlayerID = "playerId"
	ContextIsAdmin  = "isAdmin"
)

// Auth JWT 인증 미들웨어
func Auth(jwtManager *jwt.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := jwtManager.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextPlayerID, claims.PlayerID)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly 관리자 전용 라우트 보호. Auth 뒤에 와야 한다.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// PlayerID 컨텍스트에서 인증된 플레이어 ID 추출
func PlayerID(c *gin.Context) string {
	return c.GetString(ContextPlayerID)
}

// IsAdmin 컨텍스트에서 관리자 여부 추출
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(ContextIsAdmin)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/service"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// respondError 서비스 에러를 HTTP 상태 코드로 변환
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrChallengeNotFound),
		errors.Is(err, service.ErrMatchNotFound),
		errors.Is(err, service.ErrLadderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrSelfChallenge),
		errors.Is(err, service.ErrInvalidChallengeType),
		errors.Is(err, service.ErrTargetOutOfRange),
		errors.Is(err, service.ErrCrossLadder),
		errors.Is(err, service.ErrNotLadderJumpSource),
		errors.Is(err, service.ErrNotLadderJumpTarget),
		errors.Is(err, service.ErrTermsBelowMinimum),
		errors.Is(err, service.ErrMissingWinner),
		errors.Is(err, service.ErrInvalidPosition):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrDuplicateChallenge),
		errors.Is(err, service.ErrChallengeExpired),
		errors.Is(err, service.ErrChallengeNotPending),
		errors.Is(err, service.ErrChallengeNotOpen),
		errors.Is(err, service.ErrChallengeNotScheduled),
		errors.Is(err, service.ErrNoCounterProposal),
		errors.Is(err, service.ErrMatchNotScheduled),
		errors.Is(err, service.ErrMatchAlreadyCompleted),
		errors.Is(err, service.ErrMatchNotCompleted),
		errors.Is(err, service.ErrAlreadyTopLadder),
		errors.Is(err, service.ErrPositionTaken),
		errors.Is(err, service.ErrChallengerIneligible),
		errors.Is(err, service.ErrSmackbackNotEarned),
		errors.Is(err, service.ErrDefenderUnavailable),
		errors.Is(err, service.ErrDefenderImmune):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrNotChallengeParty),
		errors.Is(err, service.ErrNotDefender),
		errors.Is(err, service.ErrNotChallenger),
		errors.Is(err, service.ErrNotMatchParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrPlayerInactive):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	default:
		logger.Error("Unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/internal/api/handlers"
	"github.com/pool-ladder/pool-ladder-backend/internal/api/middleware"
	"github.com/pool-ladder/pool-ladder-backend/internal/config"
	"github.com/pool-ladder/pool-ladder-backend/internal/models"
	"github.com/pool-ladder/pool-ladder-backend/internal/repository"
	"github.com/pool-ladder/pool-ladder-backend/internal/service"
	"github.com/pool-ladder/pool-ladder-backend/internal/websocket"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
	"github.com/pool-ladder/pool-ladder-backend/pkg/jwt"
	"github.com/pool-ladder/pool-ladder-backend/pkg/lock"
	"github.com/pool-ladder/pool-ladder-backend/pkg/ratelimit"
)

// SetupRouter 저장소/서비스/핸들러를 조립하고 라우트를 등록한다.
// 백그라운드 승격 스위퍼는 호출자가 Start/Stop을 관리한다.
func SetupRouter(cfg *config.Config, db *database.DB, locker lock.Locker, hub *websocket.Hub, sender service.Sender) (*gin.Engine, *service.PromotionService) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	bands := models.DefaultBands()
	if err := bands.Validate(); err != nil {
		panic(err)
	}

	// 저장소
	playerRepo := repository.NewPlayerRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// 서비스
	notifications := service.NewNotificationService(sender)
	eligibility := service.NewEligibilityService(playerRepo, matchRepo, bands)
	players := service.NewPlayerService(db, playerRepo, locker, bands, hub, cfg.ImmunityDuration)
	challenges := service.NewChallengeService(challengeRepo, matchRepo, playerRepo, eligibility, notifications, cfg.ChallengeDeadline)
	resolution := service.NewResolutionService(db, matchRepo, challengeRepo, playerRepo, locker, bands, notifications, hub, cfg.ImmunityDuration)
	promotion := service.NewPromotionService(db, playerRepo, locker, bands, notifications, hub, cfg.SweepInterval)
	rating := service.NewRatingService(playerRepo, bands, promotion)

	jwtManager := jwt.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// 핸들러
	authHandler := handlers.NewAuthHandler(players, jwtManager)
	playerHandler := handlers.NewPlayerHandler(players, eligibility)
	ladderHandler := handlers.NewLadderHandler(players)
	challengeHandler := handlers.NewChallengeHandler(challenges)
	matchHandler := handlers.NewMatchHandler(matchRepo, resolution)
	adminHandler := handlers.NewAdminHandler(players, promotion, rating, resolution, challenges)

	loginLimiter := ratelimit.NewLimiter(10, 1)     // 로그인 브루트포스 방지
	challengeLimiter := ratelimit.NewLimiter(20, 1) // 도전 스팸 방지

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWS(hub, c.Writer, c.Request)
	})

	apiGroup := router.Group("/api")
	{
		// 공개 라우트
		apiGroup.POST("/auth/login", middleware.RateLimit(loginLimiter), authHandler.Login)
		apiGroup.GET("/ladders", ladderHandler.Standings)
		apiGroup.GET("/ladders/:name", ladderHandler.Get)
		apiGroup.GET("/matches/recent", matchHandler.Recent)

		// 인증 필요
		auth := apiGroup.Group("")
		auth.Use(middleware.Auth(jwtManager))
		{
			auth.GET("/auth/me", authHandler.Me)

			auth.GET("/players/:id", playerHandler.Get)
			auth.GET("/players/:id/targets", playerHandler.Targets)
			auth.GET("/players/:id/matches", matchHandler.ByPlayer)
			auth.PUT("/players/:id/vacation", playerHandler.SetVacation)

			auth.POST("/challenges", middleware.RateLimitByPlayer(challengeLimiter), challengeHandler.Create)
			auth.GET("/challenges/mine", challengeHandler.Mine)
			auth.GET("/challenges/sent", challengeHandler.Sent)
			auth.GET("/challenges/pending", challengeHandler.Pending)
			auth.GET("/challenges/:id", challengeHandler.Get)
			auth.POST("/challenges/:id/accept", challengeHandler.Accept)
			auth.POST("/challenges/:id/decline", challengeHandler.Decline)
			auth.POST("/challenges/:id/counter", challengeHandler.Counter)
			auth.POST("/challenges/:id/counter/accept", challengeHandler.AcceptCounter)
			auth.POST("/challenges/:id/counter/reject", challengeHandler.RejectCounter)
			auth.POST("/challenges/:id/schedule", challengeHandler.Schedule)
			auth.POST("/challenges/:id/cancel", challengeHandler.Cancel)

			auth.GET("/matches/:id", matchHandler.Get)
			auth.POST("/matches/:id/result", matchHandler.Report)
		}

		// 관리자 전용
		admin := apiGroup.Group("/admin")
		admin.Use(middleware.Auth(jwtManager), middleware.AdminOnly())
		{
			admin.POST("/players", adminHandler.CreatePlayer)
			admin.DELETE("/players/:id", adminHandler.RemovePlayer)
			admin.PUT("/players/:id/position", adminHandler.SetPosition)
			admin.PUT("/players/:id/suspension", adminHandler.SetSuspension)
			admin.POST("/players/:id/immunity", adminHandler.GrantImmunity)
			admin.DELETE("/players/:id/immunity", adminHandler.ClearImmunity)
			admin.POST("/players/:id/promote", adminHandler.PromotePlayer)
			admin.PUT("/players/:id/rating", adminHandler.UpdateRating)

			admin.POST("/ladders/:name/reindex", adminHandler.Reindex)
			admin.POST("/ladders/:name/sweep", adminHandler.Sweep)

			admin.POST("/ratings/import", adminHandler.ImportRatings)

			admin.GET("/matches/scheduled", matchHandler.Scheduled)
			admin.POST("/matches/:id/result", adminHandler.ReportResult)
			admin.POST("/matches/:id/reverse", adminHandler.ReverseMatch)

			admin.POST("/challenges/:id/forfeit", adminHandler.ForfeitChallenge)
		}
	}

	return router, promotion
}

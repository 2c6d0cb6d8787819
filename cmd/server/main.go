package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pool-ladder/pool-ladder-backend/internal/api"
	"github.com/pool-ladder/pool-ladder-backend/internal/config"
	"github.com/pool-ladder/pool-ladder-backend/internal/websocket"
	"github.com/pool-ladder/pool-ladder-backend/pkg/database"
	"github.com/pool-ladder/pool-ladder-backend/pkg/lock"
	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

func main() {
	// 설정을 읽기 전에 기본 로거가 필요하다
	logger.Init("development", "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	// 다중 인스턴스 배포에서는 Redis 락, 아니면 프로세스 내 락
	var locker lock.Locker
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", "error", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer client.Close()
		locker = lock.NewRedisLocker(client)
		logger.Info("Using Redis ladder locks")
	} else {
		locker = lock.NewLocalLocker()
		logger.Info("Using in-process ladder locks")
	}

	hub := websocket.NewHub()
	go hub.Run()

	router, promotion := api.SetupRouter(cfg, db, locker, hub, nil)

	promotion.Start()
	defer promotion.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", "error", err)
		}
	}()

	// 종료 시그널 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

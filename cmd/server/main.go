package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"jar_backend/internal/app/di"
	"jar_backend/internal/app/router"
	"jar_backend/internal/platform/config"
	infradb "jar_backend/internal/platform/db"
	"jar_backend/internal/platform/http/response"
	infraredis "jar_backend/internal/platform/redis"
)

func main() {
	started := time.Now()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	response.UseJSONFieldNames()

	// db
	db, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), di.Models()...)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(context.Background(), infraredis.LoadConfigFromEnv()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "reason", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	app := di.NewApp(cfg, db, rdb, di.NewMailSender(context.Background(), cfg))

	// ルータ生成
	r := router.NewRouter(router.Config{
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		SystemAccessToken: cfg.SystemAccessToken,
		Started:           started,
	}, app.Handlers)

	app.Scheduler.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "jar", cfg.JarName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app.Scheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

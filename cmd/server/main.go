package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecommerce-platform/auth-service/internal/api"
	"github.com/ecommerce-platform/auth-service/internal/core/service"
	"github.com/ecommerce-platform/auth-service/internal/infrastructure/config"
	mongodb "github.com/ecommerce-platform/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/ecommerce-platform/auth-service/internal/infrastructure/db/redis"
	"github.com/ecommerce-platform/auth-service/internal/infrastructure/sweep"
	"github.com/ecommerce-platform/auth-service/internal/security"
	"github.com/ecommerce-platform/auth-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Signing key derivation happens exactly once, here.
	codec, err := security.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}

	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := mongodb.NewRefreshTokenRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create user indexes")
	}
	if err := tokenRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create refresh token indexes")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	// --- Services ---
	hasher := service.NewBcryptHasher()
	users := service.NewUserService(userRepo, hasher, log)
	tokens := service.NewRefreshTokenService(tokenRepo, cfg.JWT.RefreshTTL(), log)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)
	auth := service.NewAuthService(users, tokens, hasher, codec, limiter, cfg.JWT.AccessTTL(), log)

	// --- Background sweep of expired refresh tokens ---
	sweeper := sweep.NewSweeper(tokens, cfg.SweepInterval, log)
	sweeper.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(auth, users, codec, db, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("auth service starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

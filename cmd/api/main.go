package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dronework/marketplace-api/internal/api"
	"github.com/dronework/marketplace-api/internal/core/security"
	"github.com/dronework/marketplace-api/internal/core/service"
	"github.com/dronework/marketplace-api/internal/core/token"
	"github.com/dronework/marketplace-api/internal/infrastructure/db/postgres"
	"github.com/dronework/marketplace-api/internal/infrastructure/db/redis"
	"github.com/dronework/marketplace-api/internal/pkg/config"
	"github.com/dronework/marketplace-api/pkg/logger"
)

// @title        Dronework Marketplace Auth API
// @version      1.0
// @description  Authentication, session and authorization core of the dronework marketplace.
// @BasePath     /
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(rootCtx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("config load failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	pool, err := postgres.Connect(rootCtx, postgres.Config{URL: cfg.Postgres.URL})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init failed")
	}
	defer pool.Close()

	rdb, err := redis.Connect(rootCtx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis init failed")
	}
	defer rdb.Close()

	codec, err := token.NewCodec(cfg.SecretKey, cfg.Algorithm, cfg.AccessTTL(), cfg.RefreshTTL(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec init failed")
	}

	userRepo := postgres.NewUserRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	revocationCache := redis.NewRevocationCache(rdb)

	authService, err := service.NewAuthService(
		userRepo, accountRepo, sessionRepo, revocationCache,
		codec, security.NewHasher(), log, nil,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service init failed")
	}
	accountService := service.NewAccountService(accountRepo, log, nil)

	sweeper := service.NewSweeper(sessionRepo, cfg.SweepInterval, log, nil)
	sweeper.Start(rootCtx)

	e := api.NewRouter(authService, accountService, pool, rdb, log)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("api listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/misasha/hotel-reservation/internal/config"
	"github.com/misasha/hotel-reservation/internal/handler"
	"github.com/misasha/hotel-reservation/internal/logger"
	"github.com/misasha/hotel-reservation/internal/middleware"
	"github.com/misasha/hotel-reservation/internal/repository"
	"github.com/misasha/hotel-reservation/internal/router"
	"github.com/misasha/hotel-reservation/internal/server"
	"github.com/misasha/hotel-reservation/internal/session"
)

func main() {
	envFile := pflag.String("env-file", ".env", "environment file to load")
	pflag.Parse()

	// Missing env file is fine; the environment itself may carry everything.
	_ = godotenv.Load(*envFile)

	cfg := config.Load()
	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Logger

	store, err := repository.Open(cfg.UsersFile, cfg.RoomsFile, log)
	if err != nil {
		log.Fatal("load state failed", zap.Error(err))
	}

	sessions := session.NewStore(cfg.JWTSecret, cfg.TokenLifetime, log)
	sessions.StartSweeper(cfg.SweepInterval)
	defer sessions.Stop()

	rdb := config.NewRedisClient()
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	dispatcher := router.NewDispatcher(store.Calendar, log)
	router.Register(dispatcher, &handler.Deps{
		Cfg:      cfg,
		Store:    store,
		Sessions: sessions,
	})

	srv := server.New(cfg.Addr(), dispatcher, limiter, log)
	if err := srv.Listen(); err != nil {
		log.Fatal("bind failed", zap.String("addr", cfg.Addr()), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		cancel()
	}()

	if err := srv.Run(ctx); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}

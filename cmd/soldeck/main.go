package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"soldeck/internal/infrastructure/config"
	"soldeck/internal/infrastructure/logger"
	"soldeck/internal/infrastructure/svc"
	"soldeck/internal/interfaces/rest"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config.toml")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Setup(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("service initialization failed")
	}
	defer sc.Close()

	server := rest.NewServer(cfg.Server.Addr, rest.Deps{
		Resolver:       sc.Resolver,
		Balances:       sc.Balances,
		Swaps:          sc.Swaps,
		History:        sc.History,
		StaticDir:      cfg.Server.StaticDir,
		StreamInterval: time.Duration(cfg.Stream.IntervalSec) * time.Second,
	})

	log.Info().
		Str("config", *configPath).
		Str("addr", cfg.Server.Addr).
		Bool("redis", cfg.Redis.Enabled).
		Bool("sqlite", cfg.SQLite.Enabled).
		Bool("postgres", cfg.Postgres.Enabled).
		Msg("soldeck started")

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("api server exited")
	}
}

package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"soldeck/internal/application/port"
	"soldeck/internal/application/service"
	"soldeck/internal/domain"
	"soldeck/internal/infrastructure/config"
	"soldeck/internal/infrastructure/provider/dexscreener"
	"soldeck/internal/infrastructure/provider/helius"
	"soldeck/internal/infrastructure/provider/jupiter"
	"soldeck/internal/infrastructure/storage/postgres"
	redisrepo "soldeck/internal/infrastructure/storage/redis"
	"soldeck/internal/infrastructure/storage/sqlite"
)

// ServiceContext builds and owns every dependency of the API server.
type ServiceContext struct {
	Ctx      context.Context
	Config   *config.Config
	Registry *domain.Registry

	Resolver *service.Resolver
	Balances *service.BalanceService
	Swaps    *service.SwapService
	History  port.PriceHistory

	redisClient *redisclient.Client
	cache       port.PriceCache

	closerChain []func() error
}

// New initializes providers, storage and services in dependency order.
func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:         ctx,
		Config:      cfg,
		Registry:    cfg.BuildRegistry(),
		closerChain: make([]func() error, 0),
	}

	if err := sc.initStorage(); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageInitFailed, err)
	}

	jup := jupiter.NewClient(cfg.Providers.Jupiter.PriceURL, cfg.Providers.Jupiter.QuoteURL)
	dex := dexscreener.NewClient(cfg.Providers.Dexscreener.BaseURL)
	chain := helius.NewClient(cfg.HeliusURL())

	sc.Resolver = service.NewResolver(service.ResolverDeps{
		Registry:   sc.Registry,
		Batch:      jup,
		Discovery:  dex,
		PairLookup: dex,
		Cache:      sc.cache,
		History:    sc.History,
	})
	sc.Balances = service.NewBalanceService(chain, sc.Registry)
	sc.Swaps = service.NewSwapService(jup)

	return sc, nil
}

func (sc *ServiceContext) initStorage() error {
	if sc.Config.Redis.Enabled {
		if err := sc.initRedis(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if sc.Config.SQLite.Enabled {
		repo, err := sqlite.New(sc.Config.SQLite.Path)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		sc.History = repo
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing sqlite connection")
			return repo.Close()
		})
		log.Info().Str("path", sc.Config.SQLite.Path).Msg("sqlite history initialized")
	}
	if sc.Config.Postgres.Enabled {
		repo, err := postgres.New(sc.Config.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		sc.History = repo
		sc.closerChain = append(sc.closerChain, func() error {
			log.Info().Msg("closing postgres connection")
			return repo.Close()
		})
		log.Info().Msg("postgres history initialized")
	}
	return nil
}

func (sc *ServiceContext) initRedis() error {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	sc.redisClient = rdb
	ttl := time.Duration(sc.Config.Redis.TTLSeconds) * time.Second
	sc.cache = redisrepo.New(rdb, sc.Config.Redis.Prefix, ttl)

	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().
		Str("addr", sc.Config.Redis.Addr).
		Int("db", sc.Config.Redis.DB).
		Msg("redis cache initialized")
	return nil
}

// Close releases resources in reverse initialization order.
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	return nil
}

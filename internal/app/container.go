package app

import (
	"context"
	"fmt"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database/migration"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/database/seeder"
	"talent-match/internal/domain/matching"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/geocoding"
	"talent-match/internal/pkg/logging"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"
)

const (
	connectTimeout = 10 * time.Second
	poolLimit      = 1000
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *logging.Logger

	DB    *dbpostgres.Pool
	Cache *cache.Redis

	Matcher  *matching.Service
	Matching usecase.MatchingUsecase
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Container{Config: cfg, Logger: logger}

	file, err := config.LoadMatchingFile(cfg.Matching.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load matching config: %w", err)
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	geocoder := NewGeocoder(cfg.Geocoding, file, c.Cache, logger)

	c.Matcher, err = matching.NewService(matching.ServiceConfig{
		Weights: file.Weights.Apply(matching.DefaultWeights()),
		Workers: cfg.Matching.Workers,
	}, geocoder)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	if !cfg.Database.Enabled() {
		logger.Warn("database not configured, storage-backed endpoints disabled")
		return c, nil
	}

	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	c.DB, err = dbpostgres.Connect(cctx, cfg.Database, logger)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		n, err := migration.NewRunner(logger).Run(ctx, c.DB.SQLDB())
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations complete", "applied", n)
	}

	if cfg.Database.RunSeeders {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
		if err := r.Run(ctx, c.DB); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	c.Matching = usecase.NewMatchingUsecase(
		repository.NewPostgresJobPostingRepository(c.DB),
		repository.NewPostgresCandidateProfileRepository(c.DB),
		c.Matcher,
		usecase.MatchingOptions{
			DefaultK:  cfg.Matching.DefaultK,
			MaxK:      cfg.Matching.MaxK,
			PoolLimit: poolLimit,
		},
		logger,
	)
	return c, nil
}

// NewGeocoder puts the known-location table first and falls back to the
// remote search API, behind the cache, when one is configured.
func NewGeocoder(cfg config.GeocodingConfig, file config.MatchingFile, store geocoding.JSONStore, logger *logging.Logger) matching.Geocoder {
	extra := make([]geocoding.Location, 0, len(file.Locations))
	for _, l := range file.Locations {
		extra = append(extra, geocoding.Location{
			Name:        l.Name,
			Aliases:     l.Aliases,
			Coordinates: matching.Coordinates{Latitude: l.Latitude, Longitude: l.Longitude},
		})
	}
	static := geocoding.NewStaticGeocoder(extra...)

	remote := geocoding.NewHTTPGeocoder(cfg, logger)
	if remote == nil {
		return static
	}
	return geocoding.NewChain(static, geocoding.NewCachedGeocoder(remote, store, cfg.CacheTTL, logger))
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var firstErr error
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

package main

import (
	"context"
	"fmt"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/repository"
	"productapi/internal/seed"

	"github.com/rs/zerolog"
)

// openStore builds the product repository selected by configuration.
// The returned cleanup releases any connections it holds.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (repository.ProductRepository, func(), error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Info().Msg("using in-memory product store")
		return repository.NewMemoryRepository(logger), func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return repository.NewProductRepository(pool, logger), pool.Close, nil
}

// newFixtureLoader reads fixtures from S3 when enabled, falling back to the
// local file system.
func newFixtureLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(logger)

	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for fixture files (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
}

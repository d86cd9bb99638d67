package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"productapi/internal/model"
	"productapi/internal/service"

	"github.com/rs/zerolog"
)

// Loader reads product fixtures from a single source.
type Loader interface {
	// Load reads a gzipped JSON-lines fixture and returns its products in file order.
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// Result summarises a seeding run.
type Result struct {
	Created int
	Skipped int
}

// Seeder loads fixture files and creates their products through the service.
type Seeder struct {
	loader  Loader
	service service.ProductService
	logger  zerolog.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(loader Loader, service service.ProductService, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader:  loader,
		service: service,
		logger:  logger.With().Str("component", "seeder").Logger(),
	}
}

// Run loads every path concurrently, then creates the products one by one in
// path order. Products whose id already exists are skipped.
func (s *Seeder) Run(ctx context.Context, paths []string) (Result, error) {
	s.logger.Info().Int("file_count", len(paths)).Msg("seeding products")

	type loadResult struct {
		index    int
		products []model.Product
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			products, err := s.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, products: products, err: err}
		}(i, path)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in order
	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	var res Result
	for i, result := range results {
		if result.err != nil {
			s.logger.Error().Err(result.err).Str("file", paths[i]).Msg("failed to load fixture file")
			return res, fmt.Errorf("failed to load fixture file %s: %w", paths[i], result.err)
		}

		for _, p := range result.products {
			product := p
			err := s.service.Create(ctx, &product)
			switch {
			case err == nil:
				res.Created++
			case errors.Is(err, model.ErrProductConflict):
				res.Skipped++
			default:
				return res, fmt.Errorf("failed to seed product %d from %s: %w", product.ID, paths[i], err)
			}
		}
	}

	s.logger.Info().
		Int("created", res.Created).
		Int("skipped", res.Skipped).
		Msg("seeding finished")

	return res, nil
}

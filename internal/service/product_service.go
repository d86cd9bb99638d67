package service

import (
	"context"
	"errors"
	"fmt"

	"productapi/internal/model"
	"productapi/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves all products.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// Get retrieves a single product by ID.
func (s *productService) Get(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// Create validates the product and inserts it.
func (s *productService) Create(ctx context.Context, product *model.Product) error {
	if verr := model.ValidateProduct(product); verr != nil {
		s.logger.Debug().Err(verr).Msg("rejected invalid product")
		return verr
	}

	if err := s.productRepo.Insert(ctx, product); err != nil {
		if errors.Is(err, model.ErrProductConflict) {
			s.logger.Warn().Int64("product_id", product.ID).Msg("product id already taken")
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", product.ID).Msg("product created")

	return nil
}

// Update validates the product and replaces the stored record with the given ID.
func (s *productService) Update(ctx context.Context, id int64, product *model.Product) error {
	if verr := model.ValidateUpdate(id, product); verr != nil {
		s.logger.Debug().Err(verr).Int64("product_id", id).Msg("rejected invalid product update")
		return verr
	}

	if err := s.productRepo.Update(ctx, id, product); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			return err
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	return nil
}

// Ready pings the repository.
func (s *productService) Ready(ctx context.Context) error {
	if err := s.productRepo.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("product store not ready")
		return err
	}
	return nil
}

package service

import (
	"context"

	"productapi/internal/model"
)

// ProductService defines operations for product management.
type ProductService interface {
	// List retrieves every product ordered by ID.
	List(ctx context.Context) ([]model.Product, error)

	// Get retrieves a single product by ID.
	Get(ctx context.Context, id int64) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update validates and replaces the product stored under id.
	Update(ctx context.Context, id int64, product *model.Product) error

	// Ready reports whether the backing store is reachable.
	Ready(ctx context.Context) error
}

package repository

import (
	"context"

	"productapi/internal/model"
)

// ProductRepository defines the interface for product data access operations.
// It is the only owner of persisted product state.
type ProductRepository interface {
	// GetAll retrieves every product ordered by ID.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	// Returns model.ErrProductNotFound if no such product exists.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Insert stores a new product.
	// Returns model.ErrProductConflict if the ID is already taken.
	Insert(ctx context.Context, product *model.Product) error

	// Update replaces name, color and size of the product with the given ID.
	// Returns model.ErrProductNotFound if no such product exists.
	Update(ctx context.Context, id int64, product *model.Product) error

	// Ping checks that the underlying storage is reachable.
	Ping(ctx context.Context) error
}

package repository

import (
	"context"
	"sort"
	"sync"

	"productapi/internal/model"

	"github.com/rs/zerolog"
)

// memoryRepository implements ProductRepository in process memory.
// All reads and writes go through mu, so Insert's existence check and
// write are a single atomic step.
type memoryRepository struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	logger   zerolog.Logger
}

// NewMemoryRepository creates an empty in-memory product repository.
func NewMemoryRepository(logger zerolog.Logger) ProductRepository {
	return &memoryRepository{
		products: make(map[int64]model.Product),
		logger:   logger.With().Str("repository", "product-memory").Logger(),
	}
}

func (r *memoryRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		r.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}
	return &p, nil
}

func (r *memoryRepository) Insert(ctx context.Context, product *model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; exists {
		r.logger.Debug().Int64("product_id", product.ID).Msg("product already exists")
		return model.ErrProductConflict
	}

	r.products[product.ID] = *product
	return nil
}

func (r *memoryRepository) Update(ctx context.Context, id int64, product *model.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[id]; !exists {
		r.logger.Debug().Int64("product_id", id).Msg("product not found for update")
		return model.ErrProductNotFound
	}

	updated := *product
	updated.ID = id
	r.products[id] = updated
	return nil
}

func (r *memoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

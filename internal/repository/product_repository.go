package repository

import (
	"context"
	"errors"
	"fmt"

	"productapi/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const pgUniqueViolation = "23505"

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves every product ordered by ID.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, name, "Color", size
		FROM products
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.Size); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT id, name, "Color", size
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Color, &p.Size)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Insert stores a new product. The primary key constraint is the
// serialisation point for concurrent inserts of the same ID.
func (r *productRepository) Insert(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, "Color", size)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, product.ID, product.Name, product.Color, product.Size)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().Int64("product_id", product.ID).Msg("product already exists")
			return model.ErrProductConflict
		}
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Debug().Int64("product_id", product.ID).Msg("product inserted")

	return nil
}

// Update replaces name, color and size of the product with the given ID.
func (r *productRepository) Update(ctx context.Context, id int64, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, "Color" = $3, size = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, product.Name, product.Color, product.Size)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("product_id", id).Msg("product not found for update")
		return model.ErrProductNotFound
	}

	r.logger.Debug().Int64("product_id", id).Msg("product updated")

	return nil
}

// Ping checks database connectivity.
func (r *productRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

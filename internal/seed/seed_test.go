package seed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"productapi/internal/model"
	"productapi/internal/repository"
	"productapi/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (service.ProductService, repository.ProductRepository) {
	logger := zerolog.Nop()
	repo := repository.NewMemoryRepository(logger)
	return service.NewProductService(repo, logger), repo
}

func TestSeeder_Run(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	// A product created before seeding must survive untouched.
	require.NoError(t, svc.Create(ctx, &model.Product{ID: 2, Name: "Existing", Color: "Grey", Size: "L"}))

	fixtures := map[string][]model.Product{
		"a.jsonl.gz": {
			{ID: 1, Name: "Shirt", Color: "Blue", Size: "M"},
			{ID: 2, Name: "Hat", Color: "Black", Size: "S"},
		},
		"b.jsonl.gz": {
			{ID: 3, Name: "Scarf", Color: "Red", Size: "L"},
			{ID: 1, Name: "Duplicate", Color: "Blue", Size: "M"},
		},
	}

	var loads atomic.Int32
	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			loads.Add(1)
			return fixtures[path], nil
		},
	}

	res, err := NewSeeder(loader, svc, zerolog.Nop()).Run(ctx, []string{"a.jsonl.gz", "b.jsonl.gz"})

	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 2}, res)
	assert.Equal(t, int32(2), loads.Load())

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Product{
		{ID: 1, Name: "Shirt", Color: "Blue", Size: "M"},
		{ID: 2, Name: "Existing", Color: "Grey", Size: "L"},
		{ID: 3, Name: "Scarf", Color: "Red", Size: "L"},
	}, products)
}

func TestSeeder_Run_Idempotent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			return []model.Product{{ID: 1, Name: "Shirt", Color: "Blue", Size: "M"}}, nil
		},
	}
	seeder := NewSeeder(loader, svc, zerolog.Nop())

	first, err := seeder.Run(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1}, first)

	second, err := seeder.Run(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 1}, second)
}

func TestSeeder_Run_LoadError(t *testing.T) {
	svc, repo := newTestService()

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			if path == "broken" {
				return nil, errors.New("corrupt")
			}
			return []model.Product{{ID: 1, Name: "Shirt", Color: "Blue", Size: "M"}}, nil
		},
	}

	_, err := NewSeeder(loader, svc, zerolog.Nop()).Run(context.Background(), []string{"broken", "ok"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	products, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products, "nothing is written when a source fails to load")
}

func TestSeeder_Run_InvalidProduct(t *testing.T) {
	svc, _ := newTestService()

	loader := &mockLoader{
		loadFunc: func(ctx context.Context, path string) ([]model.Product, error) {
			return []model.Product{{ID: 9, Name: "", Color: "Blue", Size: "M"}}, nil
		},
	}

	_, err := NewSeeder(loader, svc, zerolog.Nop()).Run(context.Background(), []string{"a"})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, model.FieldName)
}

func TestSeeder_Run_FromFile(t *testing.T) {
	svc, repo := newTestService()

	filePath := createTestFixtureFile(t, "products.jsonl.gz", []string{
		`{"id":10,"name":"Gloves","Color":"Brown","size":"S"}`,
		`{"id":11,"name":"Boots","Color":"Black","size":"42"}`,
	})

	res, err := NewSeeder(NewFileLoader(zerolog.Nop()), svc, zerolog.Nop()).Run(context.Background(), []string{filePath})

	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)

	p, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, "Boots", p.Name)
}

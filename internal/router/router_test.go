package router

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"productapi/internal/handler"
	"productapi/internal/model"
	"productapi/internal/repository"
	"productapi/internal/service"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// setupServer wires the full stack over the in-memory store.
func setupServer(t *testing.T) (*resty.Client, repository.ProductRepository) {
	t.Helper()

	logger := zerolog.Nop()
	repo := repository.NewMemoryRepository(logger)
	svc := service.NewProductService(repo, logger)
	h := handler.NewProductHandler(svc, logger)

	srv := httptest.NewServer(New(h, prometheus.NewRegistry(), logger))
	t.Cleanup(srv.Close)

	client := resty.New().
		SetBaseURL(srv.URL).
		SetHeader("Content-Type", "application/json")

	return client, repo
}

func TestRouter_Overview(t *testing.T) {
	client, _ := setupServer(t)

	resp, err := client.R().Get("/")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "/read/", gjson.GetBytes(resp.Body(), "List").String())
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))
}

func TestRouter_EmptyList(t *testing.T) {
	client, _ := setupServer(t)

	for _, path := range []string{"/read/", "/read"} {
		resp, err := client.R().Get(path)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode(), path)
		assert.JSONEq(t, `[]`, string(resp.Body()), path)
	}
}

func TestRouter_CreateThenDetail(t *testing.T) {
	client, _ := setupServer(t)

	resp, err := client.R().
		SetBody(`{"id":1,"name":"Shirt","Color":"Blue","size":"M"}`).
		Post("/create")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode())
	assert.Equal(t, "Data Created", gjson.GetBytes(resp.Body(), "Success").String())

	for _, path := range []string{"/detail/1", "/detail/1/", "/detail/?pk=1", "/detail?pk=1"} {
		resp, err := client.R().Get(path)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode(), path)
		assert.JSONEq(t, `{"id":1,"name":"Shirt","Color":"Blue","size":"M"}`, string(resp.Body()), path)
	}

	resp, err = client.R().Get("/read/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.GetBytes(resp.Body(), "#").Int())
}

func TestRouter_DuplicateCreate(t *testing.T) {
	client, _ := setupServer(t)
	body := `{"id":1,"name":"Shirt","Color":"Blue","size":"M"}`

	resp, err := client.R().SetBody(body).Post("/create")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode())

	resp, err = client.R().
		SetHeader("X-Request-ID", "dup-1").
		SetBody(`{"id":1,"name":"Other","Color":"Red","size":"S"}`).
		Post("/create")
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.StatusCode())
	assert.Equal(t, "PRODUCT_CONFLICT", gjson.GetBytes(resp.Body(), "error").String())
	assert.Equal(t, "dup-1", gjson.GetBytes(resp.Body(), "correlationId").String())

	resp, err = client.R().Get("/read/")
	require.NoError(t, err)
	assert.JSONEq(t, `[`+body+`]`, string(resp.Body()))
}

func TestRouter_CreateValidation(t *testing.T) {
	client, _ := setupServer(t)

	resp, err := client.R().
		SetBody(`{"id":2,"name":"Shirt","Color":"Blue","size":"EXTRA-LARGE"}`).
		Post("/create")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Ensure this field has no more than 10 characters.", gjson.GetBytes(resp.Body(), "size.0").String())

	resp, err = client.R().Get("/detail/2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
}

func TestRouter_CreateRejectsNullCharacter(t *testing.T) {
	client, repo := setupServer(t)

	resp, err := client.R().
		SetBody(`{"id":1,"name":"Sh\u0000irt","Color":"Blue","size":"M"}`).
		Post("/create")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Equal(t, "Null characters are not allowed.", gjson.GetBytes(resp.Body(), "name.0").String())

	products, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRouter_Update(t *testing.T) {
	client, _ := setupServer(t)

	_, err := client.R().
		SetBody(`{"id":1,"name":"Shirt","Color":"Blue","size":"M"}`).
		Post("/create")
	require.NoError(t, err)

	t.Run("POST with path pk", func(t *testing.T) {
		resp, err := client.R().
			SetBody(`{"id":1,"name":"Shirt","Color":"Green","size":"L"}`).
			Post("/update/1")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "Data Updated", gjson.GetBytes(resp.Body(), "Success").String())
	})

	t.Run("PUT with query pk", func(t *testing.T) {
		resp, err := client.R().
			SetBody(`{"id":1,"name":"Shirt","Color":"Red","size":"S"}`).
			Put("/update?pk=1")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())

		resp, err = client.R().Get("/detail/1")
		require.NoError(t, err)
		assert.Equal(t, "Red", gjson.GetBytes(resp.Body(), "Color").String())
		assert.Equal(t, "S", gjson.GetBytes(resp.Body(), "size").String())
	})

	t.Run("Missing product leaves store unchanged", func(t *testing.T) {
		resp, err := client.R().
			SetBody(`{"id":999,"name":"Ghost","Color":"None","size":"S"}`).
			Post("/update/999")
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode())

		resp, err = client.R().Get("/read/")
		require.NoError(t, err)
		assert.Equal(t, int64(1), gjson.GetBytes(resp.Body(), "#").Int())
	})

	t.Run("Id mismatch", func(t *testing.T) {
		resp, err := client.R().
			SetBody(`{"id":2,"name":"Shirt","Color":"Blue","size":"M"}`).
			Post("/update/1")
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
		assert.True(t, gjson.GetBytes(resp.Body(), "id").Exists())
	})
}

func TestRouter_ConcurrentCreateSameID(t *testing.T) {
	client, repo := setupServer(t)

	const callers = 20
	statuses := make([]int, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := client.R().
				SetBody(fmt.Sprintf(`{"id":7,"name":"Racer %d","Color":"Red","size":"M"}`, i)).
				Post("/create")
			if err == nil {
				statuses[i] = resp.StatusCode()
			}
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, callers-1, conflicts)

	products, err := repo.GetAll(t.Context())
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestRouter_ErrorsAreJSON(t *testing.T) {
	client, _ := setupServer(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{"Unknown path", http.MethodGet, "/nowhere", http.StatusNotFound, "NOT_FOUND"},
		{"Wrong method on create", http.MethodGet, "/create", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"Wrong method on read", http.MethodPost, "/read/", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"Detail without pk", http.MethodGet, "/detail/", http.StatusBadRequest, "INVALID_PRODUCT_ID"},
		{"Detail with bad pk", http.MethodGet, "/detail/abc", http.StatusBadRequest, "INVALID_PRODUCT_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.R().Execute(tt.method, tt.path)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode())
			assert.Equal(t, tt.expectedCode, gjson.GetBytes(resp.Body(), "error").String())
			assert.Equal(t, resp.Header().Get("X-Request-ID"), gjson.GetBytes(resp.Body(), "correlationId").String())
		})
	}
}

func TestRouter_Ops(t *testing.T) {
	client, _ := setupServer(t)

	resp, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, "healthy", gjson.GetBytes(resp.Body(), "status").String())

	resp, err = client.R().Get("/ready")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	_, err = client.R().Get("/detail/42")
	require.NoError(t, err)

	resp, err = client.R().Get("/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `http_requests_total{method="GET",path="/detail/{pk}",status="404"} 1`)
}

func TestRouter_WithoutMetrics(t *testing.T) {
	logger := zerolog.Nop()
	h := handler.NewProductHandler(service.NewProductService(repository.NewMemoryRepository(logger), logger), logger)

	rec := httptest.NewRecorder()
	New(h, nil, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// panickingService fails every call by panicking.
type panickingService struct {
	service.ProductService
}

func (panickingService) List(ctx context.Context) ([]model.Product, error) {
	panic("list exploded")
}

func TestRouter_PanicIsLoggedAndCounted(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	reg := prometheus.NewRegistry()
	mux := New(handler.NewProductHandler(panickingService{}, zerolog.Nop()), reg, logger)

	req := httptest.NewRequest(http.MethodGet, "/read/", nil)
	req.Header.Set("X-Request-ID", "boom-1")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", gjson.Get(rec.Body.String(), "error").String())
	assert.Equal(t, "boom-1", gjson.Get(rec.Body.String(), "correlationId").String())

	var accessLine string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if gjson.Get(line, "message").String() == "http request" {
			accessLine = line
		}
	}
	require.NotEmpty(t, accessLine)
	assert.Equal(t, int64(http.StatusInternalServerError), gjson.Get(accessLine, "status").Int())
	assert.Equal(t, "boom-1", gjson.Get(accessLine, "request_id").String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/read",status="500"} 1`)
}

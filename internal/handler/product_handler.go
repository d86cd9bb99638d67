package handler

import (
	"errors"
	"io"
	"net/http"

	"productapi/internal/model"
	"productapi/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// pkParam names both the path parameter and the query parameter.
const pkParam = "pk"

// overview lists the resource operations and their paths.
var overview = map[string]string{
	"List":        "/read/",
	"Detail View": "/detail/<pk>/",
	"Create":      "/create",
	"Update":      "/update/<pk>/",
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Overview handles GET /.
func (h *ProductHandler) Overview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, overview, h.logger)
}

// List handles GET /read/.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.EncodeProducts(products), h.logger)
}

// Detail handles GET /detail/{pk} and GET /detail/?pk=.
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.EncodeProduct(*product), h.logger)
}

// Create handles POST /create.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	product, err := h.decodeBody(w, r)
	if err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	if err := h.service.Create(r.Context(), product); err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, SuccessResponse{Success: "Data Created"}, h.logger)
}

// Update handles POST/PUT /update/{pk} and /update?pk=.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	product, err := h.decodeBody(w, r)
	if err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	if err := h.service.Update(r.Context(), id, product); err != nil {
		writeFailure(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: "Data Updated"}, h.logger)
}

// Health handles GET /health.
func (h *ProductHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"}, h.logger)
}

// Ready handles GET /ready. It fails while the store is unreachable.
func (h *ProductHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ready(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeNotReady, "product store unavailable", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

func (h *ProductHandler) decodeBody(w http.ResponseWriter, r *http.Request) (*model.Product, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Debug().Int64("limit", tooLarge.Limit).Msg("request body too large")
		}
		return nil, model.ErrInvalidJSON
	}

	return model.DecodeProduct(body)
}

// productID reads pk from the route first, then from the query string.
func productID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, pkParam)
	if raw == "" {
		raw = r.URL.Query().Get(pkParam)
	}
	if raw == "" {
		return 0, model.ErrInvalidProductID
	}

	return model.ParseID(raw)
}

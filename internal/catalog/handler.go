package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tindahan/tindahan/internal/platform/httpx"
)

// Handler serves catalog endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type productResponse struct {
	ID    int64   `json:"id"`
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// List returns the active catalogue.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{ID: p.ID, SKU: p.SKU, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"products": out})
}

// Get returns one product.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, mapCatalogError(err))
		return
	}
	httpx.JSON(w, http.StatusOK, productResponse{
		ID: product.ID, SKU: product.SKU, Name: product.Name, Price: product.Price, Stock: product.Stock,
	})
}

type adjustStockRequest struct {
	Delta int `json:"delta"`
}

// AdjustStock applies a stock movement.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid product id")
		return
	}
	var req adjustStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Delta == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "delta must be a non-zero integer")
		return
	}
	product, err := h.service.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		httpx.RespondError(w, mapCatalogError(err))
		return
	}
	httpx.JSON(w, http.StatusOK, productResponse{
		ID: product.ID, SKU: product.SKU, Name: product.Name, Price: product.Price, Stock: product.Stock,
	})
}

func mapCatalogError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return httpx.ErrNotFound
	case errors.Is(err, ErrInsufficientStock):
		return httpx.ErrValidation
	default:
		return err
	}
}

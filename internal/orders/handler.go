package orders

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tindahan/tindahan/internal/platform/httpx"
	"github.com/tindahan/tindahan/internal/shared"
)

// Handler serves order endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

type orderResponse struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
}

type itemResponse struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}

// Place creates an order for the signed-in customer.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	customerID, ok := currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req PlaceOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "payment method and at least one item are required")
		return
	}
	order, err := h.service.PlaceOrder(r.Context(), customerID, req)
	if err != nil {
		if errors.Is(err, ErrEmptyOrder) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "no valid items in order")
			return
		}
		h.logger.Error("place order", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toOrderResponse(order))
}

// Get returns one order with its lines.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	order, items, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, mapOrderError(err))
		return
	}
	itemsOut := make([]itemResponse, 0, len(items))
	for _, item := range items {
		itemsOut = append(itemsOut, itemResponse{
			ProductID: item.ProductID, Name: item.Name, Qty: item.Qty, UnitPrice: item.UnitPrice,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"order": toOrderResponse(order), "items": itemsOut})
}

// UpdateStatus moves an order to a new status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	order, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown order status")
			return
		}
		httpx.RespondError(w, mapOrderError(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(order))
}

// PaymentResult records the payment collaborator's outcome for an order.
func (h *Handler) PaymentResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	var req PaymentResultRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "method is required and amount must be non-negative")
		return
	}
	order, err := h.service.RecordPaymentResult(r.Context(), id, req.Succeeded, req.Amount, req.Method)
	if err != nil {
		httpx.RespondError(w, mapOrderError(err))
		return
	}
	httpx.JSON(w, http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order Order) orderResponse {
	return orderResponse{
		ID:            order.ID,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		CreatedAt:     order.CreatedAt,
	}
}

func currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func mapOrderError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/platform/httpx"
	"github.com/tindahan/tindahan/internal/rbac"
	"github.com/tindahan/tindahan/internal/shared"
)

// Alerter is the best-effort notification hook for security events.
type Alerter interface {
	DeliverToRole(ctx context.Context, role string, payload notify.Payload) (notify.Report, error)
}

// Handler serves login and logout.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
	alerter  Alerter
	validate *validator.Validate
}

// NewHandler constructs a Handler. alerter may be nil.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, alerter Alerter) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		sessions: sessions,
		alerter:  alerter,
		validate: validator.New(),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginResponse struct {
	UserID int64    `json:"user_id"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
}

// Login authenticates credentials and stamps the session with the user id
// and held role names. Repeated failures raise a best-effort security
// notification for administrators; it never blocks the response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			h.raiseFailedLogin(r, req.Email)
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid email or password")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	roles, err := h.service.HeldRoles(r.Context(), user.ID)
	if err != nil {
		// An unelevated session is still a valid session.
		h.logger.Warn("load held roles", slog.Int64("user_id", user.ID), slog.Any("error", err))
		roles = nil
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, errors.New("session unavailable"))
		return
	}
	sess.SetUser(strconv.FormatInt(user.ID, 10))
	sess.SetRoles(roles)

	httpx.JSON(w, http.StatusOK, loginResponse{UserID: user.ID, Name: user.Name, Roles: roles})
}

// Logout destroys the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.sessions.Destroy(sess)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) raiseFailedLogin(r *http.Request, email string) {
	if h.alerter == nil {
		return
	}
	payload := notify.ForAdmin{}.SecurityEvent("login_failed",
		fmt.Sprintf("Failed login attempt for %s from %s.", email, r.RemoteAddr))
	if _, err := h.alerter.DeliverToRole(r.Context(), rbac.RoleSuperAdmin, payload); err != nil {
		h.logger.Warn("security notification", slog.Any("error", err))
	}
}

package rbac

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tindahan/tindahan/internal/platform/httpx"
)

// Handler exposes the role catalogue and the effective permission table to
// administrators.
type Handler struct {
	logger    *slog.Logger
	store     *Repository
	directory *Directory
	table     PermissionTable
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, store *Repository, directory *Directory, table PermissionTable) *Handler {
	return &Handler{logger: logger, store: store, directory: directory, table: table}
}

type roleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListRoles responds with all configured roles.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.store.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, roleResponse{ID: role.ID, Name: role.Name, Description: role.Description})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"roles": out})
}

// ListPermissions responds with the permission table in effect.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": h.table})
}

// AssignRole grants a role to a user and refreshes the directory cache so
// the next dispatch sees the change.
func (h *Handler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	roleID, ok := h.directory.ResolveID(body.Role)
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown role")
		return
	}
	if err := h.store.AssignRole(r.Context(), userID, roleID); err != nil {
		h.logger.Error("assign role", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RevokeRole removes a role from a user.
func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	role := chi.URLParam(r, "role")
	roleID, ok := h.directory.ResolveID(role)
	if !ok {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown role")
		return
	}
	if err := h.store.RemoveRole(r.Context(), userID, roleID); err != nil {
		h.logger.Error("revoke role", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshDirectory reloads the role name cache after administrative role
// changes.
func (h *Handler) RefreshDirectory(w http.ResponseWriter, r *http.Request) {
	h.directory.Refresh(r.Context())
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

package notify

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tindahan/tindahan/internal/platform/httpx"
	"github.com/tindahan/tindahan/internal/shared"
)

// Handler serves a user's own notifications.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, repo *Repository) *Handler {
	return &Handler{logger: logger, repo: repo}
}

type recordResponse struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	Entity    *EntityRef        `json:"entity,omitempty"`
	Priority  Priority          `json:"priority"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}

// List returns a page of the caller's notifications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pagination := shared.NewPagination(page, 20, 0)
	records, err := h.repo.ListForUser(r.Context(), userID, pagination.PerPage, (pagination.Page-1)*pagination.PerPage)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]recordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, recordResponse{
			ID:        record.ID,
			Title:     record.Payload.Title,
			Message:   record.Payload.Message,
			Category:  record.Payload.Category,
			Entity:    record.Payload.Entity,
			Priority:  record.Payload.Priority,
			Metadata:  record.Payload.Metadata,
			Read:      record.Read,
			CreatedAt: record.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"notifications": out, "page": pagination.Page})
}

// UnreadCount returns the caller's unread badge count.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	count, err := h.repo.UnreadCount(r.Context(), userID)
	if err != nil {
		h.logger.Error("unread count", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead flags one notification as read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid notification id")
		return
	}
	if err := h.repo.MarkRead(r.Context(), id, userID); err != nil {
		httpx.RespondError(w, mapRepoError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead flags every unread notification of the caller as read.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if err := h.repo.MarkAllRead(r.Context(), userID); err != nil {
		h.logger.Error("mark all read", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete removes one of the caller's notifications.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(r)
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid notification id")
		return
	}
	if err := h.repo.Delete(r.Context(), id, userID); err != nil {
		httpx.RespondError(w, mapRepoError(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentUserID(r *http.Request) (int64, bool) {
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

func mapRepoError(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return httpx.ErrNotFound
	}
	return err
}

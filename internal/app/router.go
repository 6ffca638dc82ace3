package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tindahan/tindahan/internal/auth"
	"github.com/tindahan/tindahan/internal/catalog"
	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/observability"
	"github.com/tindahan/tindahan/internal/orders"
	"github.com/tindahan/tindahan/internal/rbac"
	"github.com/tindahan/tindahan/internal/shared"
	"github.com/tindahan/tindahan/internal/users"
	"github.com/tindahan/tindahan/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	Guard          rbac.Middleware

	AuthHandler    *auth.Handler
	UsersHandler   *users.Handler
	CatalogHandler *catalog.Handler
	OrdersHandler  *orders.Handler
	NotifyHandler  *notify.Handler
	RBACHandler    *rbac.Handler
	JobHandler     *jobs.Handler
	JobClient      CleanupEnqueuer
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Tindahan defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", params.AuthHandler.Login)
		r.Post("/logout", params.AuthHandler.Logout)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", params.CatalogHandler.List)
		r.Get("/{id}", params.CatalogHandler.Get)
		r.With(params.Guard.Protect(rbac.DestProducts)).
			Post("/{id}/stock", params.CatalogHandler.AdjustStock)
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(params.Guard.Protect(rbac.DestCheckout)).
			Post("/", params.OrdersHandler.Place)
		r.With(params.Guard.Protect(rbac.DestOrders)).
			Get("/{id}", params.OrdersHandler.Get)
		r.With(params.Guard.Protect(rbac.DestOrders)).
			Post("/{id}/status", params.OrdersHandler.UpdateStatus)
		r.With(params.Guard.Protect(rbac.DestOrders)).
			Post("/{id}/payment", params.OrdersHandler.PaymentResult)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(params.Guard.Protect(rbac.DestAccount))
		r.Get("/", params.NotifyHandler.List)
		r.Get("/unread-count", params.NotifyHandler.UnreadCount)
		r.Post("/{id}/read", params.NotifyHandler.MarkRead)
		r.Post("/read-all", params.NotifyHandler.MarkAllRead)
		r.Delete("/{id}", params.NotifyHandler.Delete)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(params.Guard.Protect(rbac.DestAdmin))
		r.Get("/roles", params.RBACHandler.ListRoles)
		r.Get("/permissions", params.RBACHandler.ListPermissions)
		r.Post("/users/{userID}/roles", params.RBACHandler.AssignRole)
		r.Delete("/users/{userID}/roles/{role}", params.RBACHandler.RevokeRole)
		r.Post("/roles/refresh", params.RBACHandler.RefreshDirectory)
		r.Get("/users", params.UsersHandler.List)
		r.Post("/users", params.UsersHandler.Register)
		if params.JobClient != nil {
			r.Post("/notifications/cleanup", notifyCleanupTrigger(params.Logger, params.JobClient, params.Config.NotifyRetentionDays))
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

package rbac

import (
	"log/slog"
	"net/http"

	"github.com/tindahan/tindahan/internal/platform/httpx"
	"github.com/tindahan/tindahan/internal/shared"
)

// Middleware wires the access guard into the HTTP layer. The session is
// the identity provider: user id and held roles are read from it on every
// request, never cached here.
type Middleware struct {
	Guard  *Guard
	Logger *slog.Logger
}

// Protect guards the named destination. The guard outcome maps to HTTP:
// Proceed passes through, Redirect answers 303, Denied answers 403 with
// the reason string, Pending answers 503.
func (m Middleware) Protect(destination string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, roles := m.sessionState(r)
			outcome := m.Guard.Check(state, roles, destination)
			switch outcome.Kind {
			case OutcomeProceed:
				next.ServeHTTP(w, r)
			case OutcomeRedirect:
				http.Redirect(w, r, outcome.Target, http.StatusSeeOther)
			case OutcomeDenied:
				if m.Logger != nil {
					m.Logger.Info("access denied",
						slog.String("destination", destination),
						slog.String("reason", outcome.Reason))
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", outcome.Reason)
			default:
				httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "session not ready")
			}
		})
	}
}

func (m Middleware) sessionState(r *http.Request) (SessionState, []string) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return SessionAnonymous, nil
	}
	return SessionAuthenticated, sess.Roles()
}

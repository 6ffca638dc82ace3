package rbac

// SessionState tells the guard how far identity resolution has progressed.
type SessionState int

const (
	// SessionLoading means the session and held roles are not resolved yet.
	SessionLoading SessionState = iota
	// SessionAnonymous means resolution finished and no user is signed in.
	SessionAnonymous
	// SessionAuthenticated means a signed-in user with resolved roles.
	SessionAuthenticated
)

// OutcomeKind enumerates guard results.
type OutcomeKind int

const (
	// OutcomePending is the only result while the session is loading.
	OutcomePending OutcomeKind = iota
	// OutcomeProceed lets the navigation or action through.
	OutcomeProceed
	// OutcomeRedirect sends the user elsewhere without showing an error.
	OutcomeRedirect
	// OutcomeDenied blocks with a human-readable reason.
	OutcomeDenied
)

// Outcome is the guard's terminal answer for one check.
type Outcome struct {
	Kind   OutcomeKind
	Target string
	Reason string
}

// RouteTable declares, per protected destination, what RouteConfig applies.
// Destinations absent from the table are public.
type RouteTable map[string]Requirement

// ConfinementTable binds a role to the single destination its holders may
// reach. Confinement is a hard boundary, not a permission gradient.
type ConfinementTable map[string]string

// Guard evaluates navigation and action attempts. Every check runs the
// full decision again; nothing is cached between checks, so a role change
// takes effect on the very next attempt.
type Guard struct {
	engine       *Engine
	routes       RouteTable
	confinements ConfinementTable
	loginPath    string
}

// NewGuard constructs a Guard.
func NewGuard(engine *Engine, routes RouteTable, confinements ConfinementTable, loginPath string) *Guard {
	if loginPath == "" {
		loginPath = "/login"
	}
	normalized := make(ConfinementTable, len(confinements))
	for role, target := range confinements {
		normalized[normalizeRole(role)] = target
	}
	return &Guard{
		engine:       engine,
		routes:       routes,
		confinements: normalized,
		loginPath:    loginPath,
	}
}

// Check evaluates one attempt to reach destination. While the session is
// loading the only possible outcome is Pending. Once resolved, the order
// is: authentication, then role confinement, then the permission check.
// Confinement short-circuits to a redirect before the permission engine is
// consulted at all.
func (g *Guard) Check(state SessionState, held []string, destination string) Outcome {
	if state == SessionLoading {
		return Outcome{Kind: OutcomePending}
	}

	req, protected := g.routes[destination]

	if state == SessionAnonymous {
		if protected && req.RequireAuth {
			return Outcome{Kind: OutcomeRedirect, Target: g.loginPath}
		}
		if !protected {
			return Outcome{Kind: OutcomeProceed}
		}
	}

	if state == SessionAuthenticated {
		if target, confined := g.confinementTarget(held); confined && target != destination {
			return Outcome{Kind: OutcomeRedirect, Target: target}
		}
		if !protected {
			return Outcome{Kind: OutcomeProceed}
		}
	}

	decision := g.engine.CanAccess(held, req)
	if decision.Allowed {
		return Outcome{Kind: OutcomeProceed}
	}
	return Outcome{Kind: OutcomeDenied, Reason: decision.Reason}
}

// confinementTarget reports whether the held role set is confined. A user
// is confined only when every held role carries a confinement entry;
// holding any unconfined role lifts the restriction.
func (g *Guard) confinementTarget(held []string) (string, bool) {
	if len(held) == 0 || len(g.confinements) == 0 {
		return "", false
	}
	target := ""
	for _, role := range held {
		t, ok := g.confinements[normalizeRole(role)]
		if !ok {
			return "", false
		}
		if target == "" {
			target = t
		}
	}
	return target, target != ""
}

package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGuard() *Guard {
	engine := NewEngine(DefaultPermissionTable())
	return NewGuard(engine, DefaultRouteTable(), DefaultConfinements(), DestLogin)
}

func TestGuardLoadingOnlyProducesPending(t *testing.T) {
	guard := testGuard()

	for _, dest := range []string{DestDashboard, DestPOS, DestAdmin, "/anything"} {
		outcome := guard.Check(SessionLoading, []string{"superadmin"}, dest)
		assert.Equal(t, OutcomePending, outcome.Kind, "loading state must stay pending for %s", dest)
	}
}

func TestGuardAnonymousRedirectsToLogin(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAnonymous, nil, DestDashboard)
	require.Equal(t, OutcomeRedirect, outcome.Kind)
	assert.Equal(t, DestLogin, outcome.Target)
}

func TestGuardAnonymousPublicDestinationProceeds(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAnonymous, nil, "/catalog")
	assert.Equal(t, OutcomeProceed, outcome.Kind)
}

func TestGuardConfinementBeatsPermissionCheck(t *testing.T) {
	guard := testGuard()

	// A cashier attempting the dashboard lacks view_dashboard too, but the
	// confinement boundary wins: redirect to the POS, never ShowDenied.
	outcome := guard.Check(SessionAuthenticated, []string{"cashier"}, DestDashboard)
	require.Equal(t, OutcomeRedirect, outcome.Kind)
	assert.Equal(t, DestPOS, outcome.Target)
	assert.Empty(t, outcome.Reason)
}

func TestGuardConfinedRoleReachesItsDestination(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAuthenticated, []string{"cashier"}, DestPOS)
	assert.Equal(t, OutcomeProceed, outcome.Kind)
}

func TestGuardUnconfinedRoleLiftsConfinement(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAuthenticated, []string{"cashier", "owner"}, DestDashboard)
	assert.Equal(t, OutcomeProceed, outcome.Kind)
}

func TestGuardCheckoutRequiresPlaceOrderPermission(t *testing.T) {
	guard := testGuard()

	anonymous := guard.Check(SessionAnonymous, nil, DestCheckout)
	require.Equal(t, OutcomeRedirect, anonymous.Kind)
	assert.Equal(t, DestLogin, anonymous.Target)

	customer := guard.Check(SessionAuthenticated, []string{"user"}, DestCheckout)
	assert.Equal(t, OutcomeProceed, customer.Kind)

	// Cashiers hold place_order too, but the POS confinement still applies.
	cashier := guard.Check(SessionAuthenticated, []string{"cashier"}, DestCheckout)
	require.Equal(t, OutcomeRedirect, cashier.Kind)
	assert.Equal(t, DestPOS, cashier.Target)
}

func TestGuardDeniedWithReason(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAuthenticated, []string{"user"}, DestDashboard)
	require.Equal(t, OutcomeDenied, outcome.Kind)
	assert.NotEmpty(t, outcome.Reason)
}

func TestGuardAllowedProceeds(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAuthenticated, []string{"owner"}, DestDashboard)
	assert.Equal(t, OutcomeProceed, outcome.Kind)
}

func TestGuardReEvaluatesEveryCheck(t *testing.T) {
	guard := testGuard()

	denied := guard.Check(SessionAuthenticated, []string{"user"}, DestReports)
	require.Equal(t, OutcomeDenied, denied.Kind)

	// Same guard instance, new role set: the very next check must allow.
	allowed := guard.Check(SessionAuthenticated, []string{"user", "owner"}, DestReports)
	assert.Equal(t, OutcomeProceed, allowed.Kind)
}

func TestGuardAuthenticatedPublicDestinationProceeds(t *testing.T) {
	guard := testGuard()

	outcome := guard.Check(SessionAuthenticated, []string{"user"}, "/catalog")
	assert.Equal(t, OutcomeProceed, outcome.Kind)
}

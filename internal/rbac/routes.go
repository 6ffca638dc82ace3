package rbac

// Storefront destinations used by the route table and confinement rules.
const (
	DestLogin     = "/login"
	DestDashboard = "/dashboard"
	DestPOS       = "/pos"
	DestAdmin     = "/admin"
	DestReports   = "/reports"
	DestProducts  = "/products"
	DestOrders    = "/orders"
	DestCheckout  = "/checkout"
	DestAccount   = "/account"
)

// DefaultRouteTable declares the guard configuration for each protected
// destination.
func DefaultRouteTable() RouteTable {
	return RouteTable{
		DestDashboard: PermissionRequirement(PermViewDashboard),
		DestPOS:       PermissionRequirement(PermAccessPOS),
		DestAdmin: {
			Permission:   PermAccessAdminPanel,
			RequireAuth:  true,
			AllowedRoles: []string{RoleSuperAdmin},
		},
		DestReports:  PermissionRequirement(PermViewReports),
		DestProducts: PermissionRequirement(PermManageProducts),
		DestOrders:   PermissionRequirement(PermViewOrders),
		DestCheckout: PermissionRequirement(PermPlaceOrder),
		DestAccount:  {RequireAuth: true},
	}
}

// DefaultConfinements confines cashiers to the point-of-sale screen.
func DefaultConfinements() ConfinementTable {
	return ConfinementTable{
		RoleCashier: DestPOS,
	}
}

package rbac

import (
	"encoding/json"
	"fmt"
	"os"
)

// Permission tags gating storefront actions and views.
const (
	PermViewDashboard    = "view_dashboard"
	PermViewReports      = "view_reports"
	PermAccessAdminPanel = "access_admin_panel"
	PermAccessPOS        = "access_pos"

	PermManageProducts = "manage_products"
	PermEditProduct    = "edit_product"

	PermViewOrders   = "view_orders"
	PermManageOrders = "manage_orders"
	PermPlaceOrder   = "place_order"

	PermManageUsers = "manage_users"
	PermManageRoles = "manage_roles"
)

// DefaultPermissionTable is the storefront's shipped role-to-permission
// assignment. Deployments override it with PERMISSIONS_FILE.
func DefaultPermissionTable() PermissionTable {
	return PermissionTable{
		PermViewDashboard:    {RoleOwner, RoleSuperAdmin},
		PermViewReports:      {RoleOwner, RoleSuperAdmin},
		PermAccessAdminPanel: {RoleSuperAdmin},
		PermAccessPOS:        {RoleCashier, RoleOwner, RoleSuperAdmin},

		PermManageProducts: {RoleOwner, RoleSuperAdmin},
		PermEditProduct:    {RoleOwner, RoleSuperAdmin},

		PermViewOrders:   {RoleCashier, RoleOwner, RoleSuperAdmin},
		PermManageOrders: {RoleCashier, RoleOwner, RoleSuperAdmin},
		PermPlaceOrder:   {RoleUser, RoleCashier, RoleOwner, RoleSuperAdmin},

		PermManageUsers: {RoleSuperAdmin},
		PermManageRoles: {RoleSuperAdmin},
	}
}

// LoadPermissionTable reads a permission table from a JSON file shaped as
// {"permission": ["role", ...], ...}. An empty path returns the default
// table.
func LoadPermissionTable(path string) (PermissionTable, error) {
	if path == "" {
		return DefaultPermissionTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rbac: read permission table: %w", err)
	}
	var table PermissionTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("rbac: parse permission table: %w", err)
	}
	return table, nil
}

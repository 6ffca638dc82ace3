package rbac

import "time"

// Role names form a closed set owned by configuration and migrations; this
// package never creates or deletes roles.
const (
	RoleUser       = "user"
	RoleCashier    = "cashier"
	RoleOwner      = "owner"
	RoleSuperAdmin = "superadmin"
)

// Role represents a high-level permission grouping.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership is one (role, user) assignment row.
type Membership struct {
	RoleID int64
	UserID int64
}

// Decision is the outcome of a permission check. It is a value, not an
// error: callers branch on Allowed and show Reason to the user.
type Decision struct {
	Allowed bool
	Reason  string
}

// Requirement describes what a protected destination demands: a permission
// tag, whether an authenticated session is mandatory, and an optional
// explicit role allow-list that grants without consulting the permission
// table.
type Requirement struct {
	Permission   string
	RequireAuth  bool
	AllowedRoles []string
}

// PermissionRequirement wraps a bare permission tag as a requirement that
// also demands authentication, the common case for protected actions.
func PermissionRequirement(tag string) Requirement {
	return Requirement{Permission: tag, RequireAuth: true}
}

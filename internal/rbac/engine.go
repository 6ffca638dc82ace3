package rbac

import "strings"

// PermissionTable maps a permission tag to the role names that hold it.
// The table is supplied by configuration; this package never derives it.
type PermissionTable map[string][]string

// Engine answers permission questions. It is pure: no state beyond the
// immutable table, no I/O, deterministic for a given input.
type Engine struct {
	table map[string]map[string]struct{}
}

// Denial reasons shown to users. Internal role and permission identifiers
// never appear in these strings.
const (
	reasonSignInRequired    = "please sign in to continue"
	reasonNotPermitted      = "you do not have access to this feature"
	reasonUnknownPermission = "the requested action is not recognized"
)

// NewEngine builds an Engine from a permission table. Role and permission
// names are normalized so lookups are case-insensitive.
func NewEngine(table PermissionTable) *Engine {
	normalized := make(map[string]map[string]struct{}, len(table))
	for perm, roles := range table {
		perm = strings.TrimSpace(strings.ToLower(perm))
		if perm == "" {
			continue
		}
		set := make(map[string]struct{}, len(roles))
		for _, role := range roles {
			role = normalizeRole(role)
			if role != "" {
				set[role] = struct{}{}
			}
		}
		normalized[perm] = set
	}
	return &Engine{table: normalized}
}

// CanAccess decides whether the held roles satisfy the requirement.
// Policy is fail-closed: unknown permission tags deny, and an empty role
// set denies whenever authentication is required. Across held roles the
// check is a logical OR, so adding a role can only turn a denial into an
// allow.
func (e *Engine) CanAccess(held []string, req Requirement) Decision {
	if req.RequireAuth && len(held) == 0 {
		return Decision{Allowed: false, Reason: reasonSignInRequired}
	}

	if len(req.AllowedRoles) > 0 {
		allowed := make(map[string]struct{}, len(req.AllowedRoles))
		for _, role := range req.AllowedRoles {
			allowed[normalizeRole(role)] = struct{}{}
		}
		for _, role := range held {
			if _, ok := allowed[normalizeRole(role)]; ok {
				return Decision{Allowed: true}
			}
		}
	}

	perm := strings.TrimSpace(strings.ToLower(req.Permission))
	if perm == "" {
		if len(req.AllowedRoles) > 0 {
			return Decision{Allowed: false, Reason: reasonNotPermitted}
		}
		return Decision{Allowed: true}
	}

	holders, ok := e.table[perm]
	if !ok {
		return Decision{Allowed: false, Reason: reasonUnknownPermission}
	}
	for _, role := range held {
		if _, match := holders[normalizeRole(role)]; match {
			return Decision{Allowed: true}
		}
	}
	return Decision{Allowed: false, Reason: reasonNotPermitted}
}

package rbac

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Store defines the data access the directory needs from the backing store.
type Store interface {
	ListRoles(ctx context.Context) ([]Role, error)
	ListMembers(ctx context.Context, roleID int64) ([]int64, error)
	ListMembersOfRoles(ctx context.Context, roleIDs []int64) ([]Membership, error)
}

// Directory caches role name to id mappings for the process lifetime and
// resolves current role membership on demand. The name half is loaded once
// and survives until Refresh; the membership half is queried fresh on every
// call so assignment changes take effect on the next dispatch.
type Directory struct {
	store  Store
	logger *slog.Logger

	mu     sync.RWMutex
	ids    map[string]int64
	loaded bool

	group singleflight.Group
}

// NewDirectory constructs a Directory over the provided store.
func NewDirectory(store Store, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		store:  store,
		logger: logger,
		ids:    make(map[string]int64),
	}
}

// Initialize loads the role catalogue into the name cache. A second call
// before Refresh is a no-op. When the store is unreachable the cache is
// left empty and the failure is logged; lookups then resolve to empty
// recipient sets instead of surfacing errors to dispatch paths.
func (d *Directory) Initialize(ctx context.Context) {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return
	}
	d.load(ctx)
}

// Refresh clears and reloads the name cache. Used after roles are added or
// removed administratively.
func (d *Directory) Refresh(ctx context.Context) {
	d.load(ctx)
}

func (d *Directory) load(ctx context.Context) {
	_, _, _ = d.group.Do("load", func() (interface{}, error) {
		roles, err := d.store.ListRoles(ctx)
		if err != nil {
			d.logger.Warn("role directory load failed, continuing with empty cache", slog.Any("error", err))
			d.mu.Lock()
			d.ids = make(map[string]int64)
			d.loaded = false
			d.mu.Unlock()
			return nil, nil
		}
		ids := make(map[string]int64, len(roles))
		for _, role := range roles {
			ids[normalizeRole(role.Name)] = role.ID
		}
		d.mu.Lock()
		d.ids = ids
		d.loaded = true
		d.mu.Unlock()
		d.logger.Info("role directory loaded", slog.Int("roles", len(ids)))
		return nil, nil
	})
}

// ResolveID returns the cached id for a role name. It never touches the
// store.
func (d *Directory) ResolveID(name string) (int64, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.loaded {
		d.logger.Warn("role directory consulted before initialize", slog.String("role", name))
	}
	id, ok := d.ids[normalizeRole(name)]
	return id, ok
}

// MembersOf returns the user ids currently holding the named role. An
// unknown role name yields an empty set, not an error.
func (d *Directory) MembersOf(ctx context.Context, name string) ([]int64, error) {
	id, ok := d.ResolveID(name)
	if !ok {
		d.logger.Warn("unknown role name", slog.String("role", name))
		return nil, nil
	}
	return d.store.ListMembers(ctx, id)
}

// MembersOfMany resolves membership for several roles with a single batched
// store query, partitioning the rows back per role name. Unknown names are
// absent from the result. This is the primitive that keeps multi-audience
// fan-out at one membership query per event.
func (d *Directory) MembersOfMany(ctx context.Context, names []string) (map[string][]int64, error) {
	byID := make(map[int64]string, len(names))
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := d.ResolveID(name)
		if !ok {
			d.logger.Warn("unknown role name", slog.String("role", name))
			continue
		}
		if _, dup := byID[id]; dup {
			continue
		}
		byID[id] = normalizeRole(name)
		ids = append(ids, id)
	}
	result := make(map[string][]int64, len(ids))
	for _, name := range byID {
		result[name] = nil
	}
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := d.store.ListMembersOfRoles(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		name, ok := byID[row.RoleID]
		if !ok {
			continue
		}
		result[name] = append(result[name], row.UserID)
	}
	return result, nil
}

func normalizeRole(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

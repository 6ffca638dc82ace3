package users

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, email, name, passwordHash string) (User, error)
}

// RoleGranter assigns roles to users. Satisfied by rbac.Repository paired
// with the directory for name resolution.
type RoleGranter interface {
	AssignRole(ctx context.Context, userID, roleID int64) error
}

// RoleResolver maps a role name to its id from the process cache.
type RoleResolver interface {
	ResolveID(name string) (int64, bool)
}

// Service handles user business logic.
type Service struct {
	repo        RepositoryPort
	granter     RoleGranter
	resolver    RoleResolver
	defaultRole string
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, granter RoleGranter, resolver RoleResolver, defaultRole string) *Service {
	return &Service{repo: repo, granter: granter, resolver: resolver, defaultRole: defaultRole}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// Register creates an account and grants the default role. A missing
// default role leaves the account roleless, which downstream code treats
// as "no elevated access", not as an error.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(strings.ToLower(email)), strings.TrimSpace(name), string(hash))
	if err != nil {
		return User{}, err
	}
	if roleID, ok := s.resolver.ResolveID(s.defaultRole); ok {
		if err := s.granter.AssignRole(ctx, user.ID, roleID); err != nil {
			return User{}, err
		}
	}
	return user, nil
}

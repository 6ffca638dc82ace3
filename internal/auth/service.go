package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/tindahan/tindahan/internal/shared"
)

// RoleSource supplies the role names a user currently holds. Satisfied by
// rbac.Repository.
type RoleSource interface {
	RoleNamesForUser(ctx context.Context, userID int64) ([]string, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo  Repository
	roles RoleSource
}

// NewService constructs a new Service.
func NewService(repo Repository, roles RoleSource) *Service {
	return &Service{repo: repo, roles: roles}
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// HeldRoles returns the user's current role names for the session. A user
// with no roles is a valid, unelevated account, never an error.
func (s *Service) HeldRoles(ctx context.Context, userID int64) ([]string, error) {
	names, err := s.roles.RoleNamesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return names, nil
}

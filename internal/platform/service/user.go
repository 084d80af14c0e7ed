package service

import (
	"context"
	"errors"

	"github.com/courseloft/courseloft/internal/platform/domain"
	"github.com/courseloft/courseloft/internal/platform/store"
	"github.com/courseloft/courseloft/pkg/tokenx"
)

var ErrInvalidRole = errors.New("invalid_role")

type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all users, newest first. Admin only; the handler enforces
// the role before calling.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// SetUserRole changes a user's role. Existing access tokens keep their old
// role claim until they expire; the change lands at the next refresh.
func (s *UserService) SetUserRole(ctx context.Context, userID, role string) error {
	if role != tokenx.RoleUser && role != tokenx.RoleAdmin {
		return ErrInvalidRole
	}
	return s.Store.Users().UpdateUserRole(ctx, userID, role)
}

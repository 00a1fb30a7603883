package ports

import (
	"context"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// UserUpdateInput is a partial update of one profile's role and/or status.
type UserUpdateInput struct {
	Role   *domain.Role
	Status *domain.Status
}

// AdminService implements the management console operations.
type AdminService interface {
	// ListUsers returns all profiles ordered by email.
	ListUsers(ctx context.Context) ([]domain.Profile, error)
	// UpdateUser applies the change, invalidates cached auth state for the
	// target principal, and returns a freshly read list.
	UpdateUser(ctx context.Context, id string, input UserUpdateInput) ([]domain.Profile, error)
	// ActiveSessions lists currently signed-in principals.
	ActiveSessions(ctx context.Context) ([]domain.ActiveSession, error)
}

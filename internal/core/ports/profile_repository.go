package ports

import (
	"context"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// ProfileRepository defines persistence operations on the user_info table.
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// ListByEmail returns every profile ordered by email ascending.
	ListByEmail(ctx context.Context) ([]domain.Profile, error)
	// Create inserts a new profile row. Returns domain.ErrForeignKeyViolation
	// when the referenced principal does not exist in the backing store.
	Create(ctx context.Context, p *domain.Profile) error
	// UpdateRegistration overwrites email, role and status on an existing row
	// during signup reconciliation.
	UpdateRegistration(ctx context.Context, id, email string, role domain.Role, status domain.Status) error
	// UpdateRoleStatus applies a partial admin update; nil fields are left
	// untouched. Returns domain.ErrProfileNotFound when no row matches.
	UpdateRoleStatus(ctx context.Context, id string, role *domain.Role, status *domain.Status) error
}

// PrincipalRepository defines persistence for credential records.
type PrincipalRepository interface {
	// Create inserts a principal. Returns domain.ErrPrincipalExists when the
	// email is already taken.
	Create(ctx context.Context, p *domain.Principal) error
	// FindByEmail returns domain.ErrPrincipalNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

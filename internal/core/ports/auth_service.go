package ports

import (
	"context"
	"time"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   *domain.Profile
}

// SignupInput carries the data for a new registration.
type SignupInput struct {
	Email    string
	Password string
	Role     domain.Role
}

// SignupResult describes the outcome of a registration attempt.
type SignupResult struct {
	// ConfirmationPending is true when the address still needs email
	// confirmation; no profile row has been written in that case.
	ConfirmationPending bool
	Status              domain.Status
	Profile             *domain.Profile
}

// AuthService implements the login and signup flows.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Signup(ctx context.Context, input SignupInput) (*SignupResult, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/linewatch/xray-monitor/internal/api/metrics"
	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

// AuthOptions tunes the signup/login behaviour.
type AuthOptions struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AllowSelfServiceAdmin permits signup with role=admin (which yields an
	// immediately approved account). Operators can turn it off so only an
	// existing administrator may grant the admin role.
	AllowSelfServiceAdmin bool
	// RequireEmailConfirmation makes signup stop after creating the
	// credential record, before any profile write.
	RequireEmailConfirmation bool
	// ReconcileAttempts bounds the profile-insert retry loop; retries fire
	// only on domain.ErrForeignKeyViolation (principal not yet visible).
	ReconcileAttempts int
	// ReconcileBackoff is the initial delay between attempts; it doubles
	// each retry.
	ReconcileBackoff time.Duration
}

// AuthService implements registration and login over the principal and
// profile stores.
type AuthService struct {
	principals ports.PrincipalRepository
	profiles   ports.ProfileRepository
	opts       AuthOptions
	log        zerolog.Logger
}

func NewAuthService(principals ports.PrincipalRepository, profiles ports.ProfileRepository, opts AuthOptions, log zerolog.Logger) *AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.ReconcileAttempts <= 0 {
		opts.ReconcileAttempts = 3
	}
	if opts.ReconcileBackoff <= 0 {
		opts.ReconcileBackoff = 200 * time.Millisecond
	}
	return &AuthService{principals: principals, profiles: profiles, opts: opts, log: log}
}

// Login verifies the password, then checks the profile's registration state
// in fixed order: missing row, blocked, pending. Only a fully approved
// account receives a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	principal, err := s.principals.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByID(ctx, principal.ID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		metrics.LoginsTotal.WithLabelValues("not_registered").Inc()
		return nil, domain.ErrNotRegistered
	case err != nil:
		return nil, err
	}

	switch profile.Status {
	case domain.StatusBlocked:
		metrics.LoginsTotal.WithLabelValues("blocked").Inc()
		return nil, domain.ErrAccountBlocked
	case domain.StatusPending:
		metrics.LoginsTotal.WithLabelValues("pending").Inc()
		return nil, domain.ErrAccountPending
	}

	token, expiresAt, err := s.mintToken(principal, profile.Role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("principal_id", principal.ID).Str("role", string(profile.Role)).Msg("login")

	return &ports.LoginResult{Token: token, ExpiresAt: expiresAt, Profile: profile}, nil
}

// Signup creates the credential record and reconciles the user_info row:
// update when a row already exists, insert otherwise. Inserts that fail with
// a foreign-key violation are retried with doubling backoff up to the
// configured attempt bound; any other failure is terminal immediately.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*ports.SignupResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidCredentials
	}
	if role == domain.RoleAdmin && !s.opts.AllowSelfServiceAdmin {
		return nil, domain.ErrAdminSignupDisabled
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	principal := &domain.Principal{
		ID:             uuid.NewString(),
		Email:          input.Email,
		PasswordHash:   string(hash),
		EmailConfirmed: !s.opts.RequireEmailConfirmation,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.principals.Create(ctx, principal); err != nil {
		return nil, err
	}

	if s.opts.RequireEmailConfirmation {
		metrics.SignupsTotal.WithLabelValues(string(role), "confirmation_pending").Inc()
		return &ports.SignupResult{ConfirmationPending: true}, nil
	}

	status := domain.InitialStatus(role)
	profile, err := s.reconcileProfile(ctx, principal, role, status)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(string(role), "error").Inc()
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(string(role), "success").Inc()
	s.log.Info().
		Str("principal_id", principal.ID).
		Str("role", string(role)).
		Str("status", string(status)).
		Msg("signup")

	return &ports.SignupResult{Status: status, Profile: profile}, nil
}

func (s *AuthService) reconcileProfile(ctx context.Context, principal *domain.Principal, role domain.Role, status domain.Status) (*domain.Profile, error) {
	existing, err := s.profiles.FindByID(ctx, principal.ID)
	switch {
	case err == nil:
		if err := s.profiles.UpdateRegistration(ctx, principal.ID, principal.Email, role, status); err != nil {
			return nil, fmt.Errorf("signup: update profile: %w", err)
		}
		existing.Email = principal.Email
		existing.Role = role
		existing.Status = status
		return existing, nil
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:        principal.ID,
		Email:     principal.Email,
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	delay := s.opts.ReconcileBackoff
	for attempt := 1; ; attempt++ {
		err := s.profiles.Create(ctx, profile)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, domain.ErrForeignKeyViolation) || attempt >= s.opts.ReconcileAttempts {
			return nil, fmt.Errorf("signup: insert profile: %w", err)
		}

		metrics.ReconcileRetriesTotal.Inc()
		s.log.Warn().
			Str("principal_id", principal.ID).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("principal not yet visible, retrying profile insert")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func (s *AuthService) mintToken(principal *domain.Principal, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.opts.TokenTTL)
	claims := jwt.MapClaims{
		"sub":   principal.ID,
		"email": principal.Email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := t.SignedString([]byte(s.opts.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

type stubPrincipalRepo struct {
	byEmail map[string]*domain.Principal
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{byEmail: make(map[string]*domain.Principal)}
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) error {
	if _, exists := r.byEmail[p.Email]; exists {
		return domain.ErrPrincipalExists
	}
	clone := *p
	r.byEmail[p.Email] = &clone
	return nil
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPrincipalRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	for _, p := range r.byEmail {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type stubProfileRepo struct {
	profiles map[string]*domain.Profile
	// fkFailures makes the next N Create calls fail with a foreign-key
	// violation before succeeding.
	fkFailures int
	createErr  error
	creates    int
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *stubProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProfileRepo) ListByEmail(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	r.creates++
	if r.fkFailures > 0 {
		r.fkFailures--
		return domain.ErrForeignKeyViolation
	}
	if r.createErr != nil {
		return r.createErr
	}
	clone := *p
	r.profiles[p.ID] = &clone
	return nil
}

func (r *stubProfileRepo) UpdateRegistration(_ context.Context, id, email string, role domain.Role, status domain.Status) error {
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.Email = email
	p.Role = role
	p.Status = status
	return nil
}

func (r *stubProfileRepo) UpdateRoleStatus(_ context.Context, id string, role *domain.Role, status *domain.Status) error {
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	if role != nil {
		p.Role = *role
	}
	if status != nil {
		p.Status = *status
	}
	return nil
}

func testAuthService(principals *stubPrincipalRepo, profiles *stubProfileRepo) *AuthService {
	return NewAuthService(principals, profiles, AuthOptions{
		JWTSecret:             "secret",
		TokenTTL:              time.Hour,
		AllowSelfServiceAdmin: true,
		ReconcileAttempts:     3,
		ReconcileBackoff:      time.Millisecond,
	}, zerolog.Nop())
}

func mustSignup(t *testing.T, svc *AuthService, email, password string, role domain.Role) *ports.SignupResult {
	t.Helper()
	result, err := svc.Signup(context.Background(), ports.SignupInput{Email: email, Password: password, Role: role})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	return result
}

func TestAuthService_Signup_AdminApproved(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	result := mustSignup(t, svc, "admin@plant.io", "secret123", domain.RoleAdmin)
	if result.Status != domain.StatusApproved {
		t.Fatalf("expected approved, got %s", result.Status)
	}
	if result.Profile == nil || result.Profile.Role != domain.RoleAdmin {
		t.Fatalf("unexpected profile: %+v", result.Profile)
	}
}

func TestAuthService_Signup_UserPending(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	result := mustSignup(t, svc, "a@x.com", "secret123", domain.RoleUser)
	if result.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", result.Status)
	}
}

func TestAuthService_Signup_DefaultsToUserRole(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	result := mustSignup(t, svc, "d@x.com", "secret123", "")
	if result.Profile.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", result.Profile.Role)
	}
	if result.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", result.Status)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	mustSignup(t, svc, "dup@x.com", "secret123", domain.RoleUser)
	_, err := svc.Signup(context.Background(), ports.SignupInput{Email: "dup@x.com", Password: "secret456", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrPrincipalExists) {
		t.Fatalf("expected ErrPrincipalExists, got %v", err)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	if _, err := svc.Signup(context.Background(), ports.SignupInput{Email: "", Password: "x"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), ports.SignupInput{Email: "e@x.com", Password: "x", Role: "superuser"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Signup_AdminDisabled(t *testing.T) {
	svc := NewAuthService(newStubPrincipalRepo(), newStubProfileRepo(), AuthOptions{
		JWTSecret:             "secret",
		TokenTTL:              time.Hour,
		AllowSelfServiceAdmin: false,
		ReconcileBackoff:      time.Millisecond,
	}, zerolog.Nop())

	_, err := svc.Signup(context.Background(), ports.SignupInput{Email: "a@x.com", Password: "secret123", Role: domain.RoleAdmin})
	if !errors.Is(err, domain.ErrAdminSignupDisabled) {
		t.Fatalf("expected ErrAdminSignupDisabled, got %v", err)
	}
}

func TestAuthService_Signup_HashesPassword(t *testing.T) {
	principals := newStubPrincipalRepo()
	svc := testAuthService(principals, newStubProfileRepo())

	mustSignup(t, svc, "h@x.com", "secret123", domain.RoleUser)
	p := principals.byEmail["h@x.com"]
	if p.PasswordHash == "secret123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Signup_RetriesForeignKeyViolation(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.fkFailures = 2
	svc := testAuthService(newStubPrincipalRepo(), profiles)

	result := mustSignup(t, svc, "fk@x.com", "secret123", domain.RoleUser)
	if result.Profile == nil {
		t.Fatalf("expected profile after retries")
	}
	if profiles.creates != 3 {
		t.Fatalf("expected 3 insert attempts, got %d", profiles.creates)
	}
}

func TestAuthService_Signup_ForeignKeyRetriesExhausted(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.fkFailures = 5
	svc := testAuthService(newStubPrincipalRepo(), profiles)

	_, err := svc.Signup(context.Background(), ports.SignupInput{Email: "fk@x.com", Password: "secret123", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation after exhaustion, got %v", err)
	}
	if profiles.creates != 3 {
		t.Fatalf("expected insert attempts capped at 3, got %d", profiles.creates)
	}
}

func TestAuthService_Signup_NonFKErrorIsTerminal(t *testing.T) {
	profiles := newStubProfileRepo()
	profiles.createErr = errors.New("write denied")
	svc := testAuthService(newStubPrincipalRepo(), profiles)

	_, err := svc.Signup(context.Background(), ports.SignupInput{Email: "e@x.com", Password: "secret123", Role: domain.RoleUser})
	if err == nil || errors.Is(err, domain.ErrForeignKeyViolation) {
		t.Fatalf("expected terminal insert error, got %v", err)
	}
	if profiles.creates != 1 {
		t.Fatalf("expected a single insert attempt, got %d", profiles.creates)
	}
}

func TestAuthService_ReconcileUpdatesExistingRow(t *testing.T) {
	profiles := newStubProfileRepo()
	svc := testAuthService(newStubPrincipalRepo(), profiles)

	// A row already exists for the principal (e.g. from a prior partial
	// registration). Reconciling must update it in place, not duplicate it.
	profiles.profiles["p-1"] = &domain.Profile{
		ID:     "p-1",
		Email:  "old@x.com",
		Role:   domain.RoleUser,
		Status: domain.StatusPending,
	}

	principal := &domain.Principal{ID: "p-1", Email: "new@x.com"}
	profile, err := svc.reconcileProfile(context.Background(), principal, domain.RoleAdmin, domain.StatusApproved)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if profile.Email != "new@x.com" || profile.Role != domain.RoleAdmin || profile.Status != domain.StatusApproved {
		t.Fatalf("unexpected reconciled profile: %+v", profile)
	}
	if len(profiles.profiles) != 1 {
		t.Fatalf("expected a single row, got %d", len(profiles.profiles))
	}
	if profiles.creates != 0 {
		t.Fatalf("expected no insert, got %d", profiles.creates)
	}
}

func TestAuthService_Signup_EmailConfirmationPending(t *testing.T) {
	profiles := newStubProfileRepo()
	svc := NewAuthService(newStubPrincipalRepo(), profiles, AuthOptions{
		JWTSecret:                "secret",
		TokenTTL:                 time.Hour,
		AllowSelfServiceAdmin:    true,
		RequireEmailConfirmation: true,
		ReconcileBackoff:         time.Millisecond,
	}, zerolog.Nop())

	result, err := svc.Signup(context.Background(), ports.SignupInput{Email: "c@x.com", Password: "secret123", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if !result.ConfirmationPending {
		t.Fatalf("expected confirmation pending")
	}
	if len(profiles.profiles) != 0 {
		t.Fatalf("no profile row may be written before confirmation")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	signup := mustSignup(t, svc, "ok@x.com", "secret123", domain.RoleAdmin)

	result, err := svc.Login(context.Background(), "ok@x.com", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.Profile.ID != signup.Profile.ID {
		t.Fatalf("unexpected profile: %+v", result.Profile)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != signup.Profile.ID {
		t.Fatalf("expected sub %s, got %v", signup.Profile.ID, claims["sub"])
	}
	if claims["role"] != string(domain.RoleAdmin) {
		t.Fatalf("expected admin role claim, got %v", claims["role"])
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	mustSignup(t, svc, "p@x.com", "goodpass1", domain.RoleAdmin)
	if _, err := svc.Login(context.Background(), "p@x.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	if _, err := svc.Login(context.Background(), "ghost@x.com", "pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_NotRegistered(t *testing.T) {
	principals := newStubPrincipalRepo()
	profiles := newStubProfileRepo()
	svc := testAuthService(principals, profiles)

	signup := mustSignup(t, svc, "nr@x.com", "secret123", domain.RoleUser)
	delete(profiles.profiles, signup.Profile.ID)

	if _, err := svc.Login(context.Background(), "nr@x.com", "secret123"); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestAuthService_Login_Blocked(t *testing.T) {
	profiles := newStubProfileRepo()
	svc := testAuthService(newStubPrincipalRepo(), profiles)

	signup := mustSignup(t, svc, "b@x.com", "secret123", domain.RoleUser)
	profiles.profiles[signup.Profile.ID].Status = domain.StatusBlocked

	if _, err := svc.Login(context.Background(), "b@x.com", "secret123"); !errors.Is(err, domain.ErrAccountBlocked) {
		t.Fatalf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestAuthService_Login_Pending(t *testing.T) {
	svc := testAuthService(newStubPrincipalRepo(), newStubProfileRepo())

	// role=user signs up as pending; the subsequent login must fail with
	// the pending-approval error and never mint a token.
	mustSignup(t, svc, "a@x.com", "secret123", domain.RoleUser)
	if _, err := svc.Login(context.Background(), "a@x.com", "secret123"); !errors.Is(err, domain.ErrAccountPending) {
		t.Fatalf("expected ErrAccountPending, got %v", err)
	}
}

func TestAuthService_Login_ApprovedAfterAdminAction(t *testing.T) {
	profiles := newStubProfileRepo()
	svc := testAuthService(newStubPrincipalRepo(), profiles)

	signup := mustSignup(t, svc, "later@x.com", "secret123", domain.RoleUser)
	if _, err := svc.Login(context.Background(), "later@x.com", "secret123"); !errors.Is(err, domain.ErrAccountPending) {
		t.Fatalf("expected pending before approval, got %v", err)
	}

	profiles.profiles[signup.Profile.ID].Status = domain.StatusApproved
	if _, err := svc.Login(context.Background(), "later@x.com", "secret123"); err != nil {
		t.Fatalf("expected login after approval, got %v", err)
	}
}

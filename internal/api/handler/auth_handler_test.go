package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

type stubAuthService struct {
	loginResult  *ports.LoginResult
	loginErr     error
	signupResult *ports.SignupResult
	signupErr    error
	signupInput  ports.SignupInput
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (*ports.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.loginResult, nil
}

func (s *stubAuthService) Signup(_ context.Context, input ports.SignupInput) (*ports.SignupResult, error) {
	s.signupInput = input
	if s.signupErr != nil {
		return nil, s.signupErr
	}
	return s.signupResult, nil
}

type trackerRecorder struct {
	tracked []string
	cleared []string
}

func (r *trackerRecorder) Track(_ context.Context, principalID, email, ip string) error {
	r.tracked = append(r.tracked, principalID)
	return nil
}

func (r *trackerRecorder) Clear(_ context.Context, principalID string) error {
	r.cleared = append(r.cleared, principalID)
	return nil
}

func newTestContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func approvedProfile() *domain.Profile {
	return &domain.Profile{ID: "p-1", Email: "a@x.com", Role: domain.RoleUser, Status: domain.StatusApproved}
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{loginResult: &ports.LoginResult{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		Profile:   approvedProfile(),
	}}
	tracker := &trackerRecorder{}
	h := NewAuthHandler(svc, tracker)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret123"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Token != "tok" || body.Profile == nil || body.Profile.ID != "p-1" {
		t.Fatalf("unexpected response: %+v", body)
	}
	if len(tracker.tracked) != 1 || tracker.tracked[0] != "p-1" {
		t.Fatalf("expected login tracked, got %v", tracker.tracked)
	}
}

func TestAuthHandler_Login_ValidationRejects(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)

	for _, body := range []string{
		`{"email":"","password":"x"}`,
		`{"email":"not-an-email","password":"x"}`,
		`{"email":"a@x.com","password":""}`,
	} {
		c, _ := newTestContext(http.MethodPost, "/auth/login", body)
		err := h.Login(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", body, err)
		}
	}
}

func TestAuthHandler_Login_ServiceErrorPropagates(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrAccountPending}
	tracker := &trackerRecorder{}
	h := NewAuthHandler(svc, tracker)

	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"secret123"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrAccountPending) {
		t.Fatalf("expected ErrAccountPending, got %v", err)
	}
	if len(tracker.tracked) != 0 {
		t.Fatalf("failed login must not be tracked, got %v", tracker.tracked)
	}
}

func TestAuthHandler_Register_User(t *testing.T) {
	svc := &stubAuthService{signupResult: &ports.SignupResult{
		Status:  domain.StatusPending,
		Profile: approvedProfile(),
	}}
	h := NewAuthHandler(svc, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret123","role":"user"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "pending" {
		t.Fatalf("expected pending status, got %q", body.Status)
	}
	if !strings.Contains(body.Message, "awaiting administrator approval") {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestAuthHandler_Register_Admin(t *testing.T) {
	svc := &stubAuthService{signupResult: &ports.SignupResult{
		Status:  domain.StatusApproved,
		Profile: approvedProfile(),
	}}
	h := NewAuthHandler(svc, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret123","role":"admin"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.signupInput.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role passed through, got %q", svc.signupInput.Role)
	}
	var body registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body.Message, "active immediately") {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestAuthHandler_Register_ConfirmationPending(t *testing.T) {
	svc := &stubAuthService{signupResult: &ports.SignupResult{ConfirmationPending: true}}
	h := NewAuthHandler(svc, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"a@x.com","password":"secret123"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil)

	for _, body := range []string{
		`{"email":"a@x.com","password":"short"}`,
		`{"email":"a@x.com","password":"secret123","role":"root"}`,
	} {
		c, _ := newTestContext(http.MethodPost, "/auth/register", body)
		err := h.Register(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %v", body, err)
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	tracker := &trackerRecorder{}
	h := NewAuthHandler(&stubAuthService{}, tracker)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	c.Set("session", &domain.Session{PrincipalID: "p-1"})
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(tracker.cleared) != 1 || tracker.cleared[0] != "p-1" {
		t.Fatalf("expected session cleared for p-1, got %v", tracker.cleared)
	}
}

func TestAuthHandler_Logout_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &trackerRecorder{})

	c, _ := newTestContext(http.MethodPost, "/auth/logout", "")
	err := h.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

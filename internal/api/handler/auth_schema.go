package handler

import (
	"time"

	"github.com/linewatch/xray-monitor/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Profile   *domain.Profile `json:"profile"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	// Role defaults to "user" when omitted.
	Role string `json:"role" validate:"omitempty,oneof=user admin"`
}

type registerResponse struct {
	Message string          `json:"message"`
	Status  string          `json:"status,omitempty"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/linewatch/xray-monitor/internal/core/domain"
	"github.com/linewatch/xray-monitor/internal/core/ports"
)

// ProfileInvalidator receives notice that a principal's profile changed so
// cached auth state can be refreshed. Satisfied by state.Store.
type ProfileInvalidator interface {
	Invalidate(principalID string)
}

// SessionLister reads the active-session records from the activity store.
type SessionLister interface {
	List(ctx context.Context) ([]domain.ActiveSession, error)
}

// AdminService implements the user management console: list all profiles,
// change one user's role or status, monitor active sessions. Every change is
// a full round trip followed by a full list re-read; there is no optimistic
// update.
type AdminService struct {
	profiles    ports.ProfileRepository
	invalidator ProfileInvalidator
	sessions    SessionLister
	log         zerolog.Logger
}

func NewAdminService(profiles ports.ProfileRepository, invalidator ProfileInvalidator, sessions SessionLister, log zerolog.Logger) *AdminService {
	return &AdminService{profiles: profiles, invalidator: invalidator, sessions: sessions, log: log}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.ListByEmail(ctx)
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, input ports.UserUpdateInput) ([]domain.Profile, error) {
	if input.Role == nil && input.Status == nil {
		return nil, fmt.Errorf("update user: no fields: %w", domain.ErrInvalidUpdate)
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, fmt.Errorf("update user: role %q: %w", *input.Role, domain.ErrInvalidUpdate)
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("update user: status %q: %w", *input.Status, domain.ErrInvalidUpdate)
	}

	if err := s.profiles.UpdateRoleStatus(ctx, id, input.Role, input.Status); err != nil {
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(id)
	}

	ev := s.log.Info().Str("principal_id", id)
	if input.Role != nil {
		ev = ev.Str("role", string(*input.Role))
	}
	if input.Status != nil {
		ev = ev.Str("status", string(*input.Status))
	}
	ev.Msg("profile updated")

	return s.profiles.ListByEmail(ctx)
}

func (s *AdminService) ActiveSessions(ctx context.Context) ([]domain.ActiveSession, error) {
	if s.sessions == nil {
		return nil, nil
	}
	return s.sessions.List(ctx)
}

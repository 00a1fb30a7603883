package domain

import "time"

// Role is the authorization level of a profile.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Status is the approval lifecycle of a profile.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusBlocked  Status = "blocked"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusBlocked
}

// InitialStatus returns the status assigned to a freshly registered profile.
// Admin accounts are active immediately; regular users wait for approval.
func InitialStatus(role Role) Status {
	if role == RoleAdmin {
		return StatusApproved
	}
	return StatusPending
}

// Profile is the application-owned user_info row describing role, status and
// department for a principal. Exactly one profile exists per principal id;
// profiles are never deleted, only updated by an administrator.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       *string   `json:"name"`
	Role       Role      `json:"role"`
	Status     Status    `json:"status"`
	Department *string   `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

package domain

import "time"

// Principal is the authentication-service side of an identity: the credential
// record a session is minted against. It is distinct from the Profile row,
// which carries the authorization attributes (role, status, department).
type Principal struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Session is the read-only view of an authenticated principal carried through
// a request. It is produced by token verification and never mutated.
type Session struct {
	PrincipalID string    `json:"principal_id"`
	Email       string    `json:"email"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ActiveSession describes a currently signed-in principal as tracked by the
// session activity store.
type ActiveSession struct {
	PrincipalID  string    `json:"principal_id"`
	Email        string    `json:"email"`
	IPAddress    string    `json:"ip_address"`
	LoginAt      time.Time `json:"login_at"`
	LastActivity time.Time `json:"last_activity"`
}

package domain

import "errors"

var (
	// ErrInvalidCredentials covers empty or mismatched email/password pairs.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPrincipalExists is returned on signup with an already registered email.
	ErrPrincipalExists = errors.New("email already registered")
	// ErrPrincipalNotFound means no credential record exists for the lookup key.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrNotRegistered means the principal authenticated but has no user_info
	// row — an error state, not merely absent data.
	ErrNotRegistered = errors.New("account is not registered")
	// ErrAccountPending means the profile exists but is awaiting admin approval.
	ErrAccountPending = errors.New("account is awaiting approval")
	// ErrAccountBlocked means an administrator has restricted the account.
	ErrAccountBlocked = errors.New("account is blocked")
	// ErrAdminSignupDisabled is returned when self-service admin registration
	// is turned off by configuration.
	ErrAdminSignupDisabled = errors.New("admin self-registration is disabled")

	ErrProfileNotFound = errors.New("profile not found")
	// ErrForeignKeyViolation signals a profile write referencing a principal
	// that is not (yet) visible in the backing store. Transient during signup;
	// the reconcile loop retries on exactly this error.
	ErrForeignKeyViolation = errors.New("profile references unknown principal")

	// ErrInvalidUpdate covers admin updates carrying no fields or unknown
	// role/status values.
	ErrInvalidUpdate = errors.New("invalid update")

	ErrAlertNotFound = errors.New("alert not found")
)

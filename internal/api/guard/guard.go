// Package guard decides whether a request may reach protected content. The
// decision is a pure function of the auth snapshot so the priority order can
// be tested without HTTP plumbing.
package guard

import "github.com/linewatch/xray-monitor/internal/core/domain"

// Decision is the outcome of evaluating a snapshot.
type Decision int

const (
	// DecisionChecking: auth state is still being resolved; answer neither
	// content nor a redirect.
	DecisionChecking Decision = iota
	// DecisionRedirectLogin: no session, send the caller to the public entry.
	DecisionRedirectLogin
	// DecisionRedirectHome: session present but the required role does not
	// match; silently demote to the general landing route.
	DecisionRedirectHome
	// DecisionRestricted: account is pending or blocked; render the fixed
	// informational notice, no further navigation.
	DecisionRestricted
	// DecisionAllow: render the protected content.
	DecisionAllow
)

// String returns the metric label for the decision.
func (d Decision) String() string {
	switch d {
	case DecisionChecking:
		return "checking"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectHome:
		return "redirect_home"
	case DecisionRestricted:
		return "restricted"
	default:
		return "allow"
	}
}

// Snapshot is the auth state a decision is taken over.
type Snapshot struct {
	Loading bool
	Session *domain.Session
	// Profile may be nil even with a session present (no user_info row).
	Profile *domain.Profile
}

// Evaluate applies the five states in fixed priority order. requiredRole
// empty means any role. The ordering is load-bearing: a role-matching but
// unapproved account must get DecisionRestricted, never DecisionAllow.
func Evaluate(s Snapshot, requiredRole domain.Role) Decision {
	if s.Loading {
		return DecisionChecking
	}
	if s.Session == nil {
		return DecisionRedirectLogin
	}
	if requiredRole != "" && (s.Profile == nil || s.Profile.Role != requiredRole) {
		return DecisionRedirectHome
	}
	if s.Profile != nil && (s.Profile.Status == domain.StatusBlocked || s.Profile.Status == domain.StatusPending) {
		return DecisionRestricted
	}
	return DecisionAllow
}

// RestrictionNotice returns the informational panel text for a restricted
// account, distinguishing pending from blocked.
func RestrictionNotice(status domain.Status) (title, detail string) {
	if status == domain.StatusPending {
		return "account awaiting approval", "your account is waiting for administrator approval"
	}
	return "access restricted", "your account has been restricted, contact an administrator"
}

package domain

import "testing"

func TestInitialStatus(t *testing.T) {
	if got := InitialStatus(RoleAdmin); got != StatusApproved {
		t.Fatalf("admin signup must be approved immediately, got %s", got)
	}
	if got := InitialStatus(RoleUser); got != StatusPending {
		t.Fatalf("user signup must await approval, got %s", got)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("expected %s valid", r)
		}
	}
	if Role("root").Valid() {
		t.Fatalf("unknown role must be invalid")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusBlocked} {
		if !s.Valid() {
			t.Fatalf("expected %s valid", s)
		}
	}
	if Status("frozen").Valid() {
		t.Fatalf("unknown status must be invalid")
	}
}

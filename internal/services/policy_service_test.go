package services

import (
	"testing"

	"github.com/you/assessauth/internal/mocks"
)

func TestPolicyService_AddCheckRemove(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("admin", "/admin/*", "(GET|POST)"); err != nil {
		t.Fatalf("AddPolicy failed: %v", err)
	}

	ok, err := svc.CheckPermission("admin", "/admin/*", "(GET|POST)")
	if err != nil {
		t.Fatalf("CheckPermission failed: %v", err)
	}
	if !ok {
		t.Error("expected permission to be granted")
	}

	ok, _ = svc.CheckPermission("candidate", "/admin/*", "(GET|POST)")
	if ok {
		t.Error("expected permission to be denied for other roles")
	}

	if got := len(svc.GetPolicies()); got != 1 {
		t.Errorf("expected 1 policy, got %d", got)
	}

	if err := svc.RemovePolicy("admin", "/admin/*", "(GET|POST)"); err != nil {
		t.Fatalf("RemovePolicy failed: %v", err)
	}
	if got := len(svc.GetPolicies()); got != 0 {
		t.Errorf("expected 0 policies after removal, got %d", got)
	}
}

package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/xenithra/authcore/domain"
)

// fakeEnforcer is an in-memory domain.CasbinEnforcer.
type fakeEnforcer struct {
	policies [][]string
	saves    int
	saveErr  error
}

func ruleOf(params ...interface{}) []string {
	rule := make([]string, len(params))
	for i, p := range params {
		rule[i] = fmt.Sprint(p)
	}
	return rule
}

func (f *fakeEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	f.policies = append(f.policies, ruleOf(params...))
	return true, nil
}

func (f *fakeEnforcer) RemovePolicy(params ...interface{}) (bool, error) {
	rule := ruleOf(params...)
	for i, p := range f.policies {
		if len(p) == len(rule) {
			match := true
			for j := range p {
				if p[j] != rule[j] {
					match = false
					break
				}
			}
			if match {
				f.policies = append(f.policies[:i], f.policies[i+1:]...)
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	rule := ruleOf(rvals...)
	for _, p := range f.policies {
		if len(p) == 3 && p[0] == rule[0] && p[1] == rule[1] && p[2] == rule[2] {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnforcer) GetPolicy() ([][]string, error) { return f.policies, nil }

func (f *fakeEnforcer) SavePolicy() error {
	f.saves++
	return f.saveErr
}

var _ domain.CasbinEnforcer = (*fakeEnforcer)(nil)

func TestPolicyServiceAddAndCheck(t *testing.T) {
	enforcer := &fakeEnforcer{}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if enforcer.saves != 1 {
		t.Errorf("expected the policy to be persisted, saves=%d", enforcer.saves)
	}

	allowed, err := svc.CheckPermission("role_admin", "/admin/*", "GET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected the added policy to allow access")
	}

	denied, err := svc.CheckPermission("role_user", "/admin/*", "GET")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if denied {
		t.Error("expected an unlisted role to be denied")
	}
}

func TestPolicyServiceRemove(t *testing.T) {
	enforcer := &fakeEnforcer{}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RemovePolicy("role_admin", "/admin/*", "GET"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(svc.GetPolicies()); got != 0 {
		t.Errorf("expected no policies after removal, got %d", got)
	}
}

func TestPolicyServiceSaveFailure(t *testing.T) {
	enforcer := &fakeEnforcer{saveErr: errors.New("adapter down")}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy("role_admin", "/admin/*", "GET"); err == nil {
		t.Fatal("expected the persistence error to propagate")
	}
}

package app

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/xenithra/authcore/domain"
)

// seedEnforcer is an in-memory domain.CasbinEnforcer for seed tests.
type seedEnforcer struct {
	policies [][]string
	saved    bool
	getErr   error
	saveErr  error
}

func (f *seedEnforcer) AddPolicy(params ...interface{}) (bool, error) {
	rule := make([]string, len(params))
	for i, p := range params {
		rule[i] = p.(string)
	}
	f.policies = append(f.policies, rule)
	return true, nil
}

func (f *seedEnforcer) RemovePolicy(params ...interface{}) (bool, error) { return false, nil }

func (f *seedEnforcer) Enforce(rvals ...interface{}) (bool, error) { return false, nil }

func (f *seedEnforcer) GetPolicy() ([][]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.policies, nil
}

func (f *seedEnforcer) SavePolicy() error {
	f.saved = true
	return f.saveErr
}

var _ domain.CasbinEnforcer = (*seedEnforcer)(nil)

func TestSeedDefaultPoliciesEmptyTable(t *testing.T) {
	enforcer := &seedEnforcer{}

	if err := seedDefaultPolicies(enforcer, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enforcer.policies) != 1 {
		t.Fatalf("expected 1 seeded policy, got %d", len(enforcer.policies))
	}
	if enforcer.policies[0][0] != "role_admin" {
		t.Errorf("expected role_admin policy, got %v", enforcer.policies[0])
	}
	if !enforcer.saved {
		t.Error("expected the seeded policy to be persisted")
	}
}

func TestSeedDefaultPoliciesExistingTableUntouched(t *testing.T) {
	enforcer := &seedEnforcer{policies: [][]string{{"role_admin", "/admin/*", "GET"}}}

	if err := seedDefaultPolicies(enforcer, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(enforcer.policies) != 1 {
		t.Errorf("expected policies untouched, got %d rows", len(enforcer.policies))
	}
	if enforcer.saved {
		t.Error("expected no save when policies already exist")
	}
}

func TestSeedDefaultPoliciesSurfacesErrors(t *testing.T) {
	tests := []struct {
		name     string
		enforcer *seedEnforcer
	}{
		{name: "read failure", enforcer: &seedEnforcer{getErr: errors.New("adapter down")}},
		{name: "persist failure", enforcer: &seedEnforcer{saveErr: errors.New("adapter down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := seedDefaultPolicies(tt.enforcer, zap.NewNop()); err == nil {
				t.Fatal("expected the seed failure to surface")
			}
		})
	}
}

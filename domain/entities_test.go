package domain

import (
	"testing"
	"time"
)

func TestDashboardFor(t *testing.T) {
	tests := []struct {
		name        string
		role        Role
		expected    Dashboard
		description string
	}{
		{
			name:        "admin routes to admin dashboard",
			role:        RoleAdmin,
			expected:    DashboardAdmin,
			description: "admin principals land on the admin surface",
		},
		{
			name:        "user routes to user dashboard",
			role:        RoleUser,
			expected:    DashboardUser,
			description: "user principals land on the user surface",
		},
		{
			name:        "unmodeled role routes to error surface",
			role:        Role("superuser"),
			expected:    DashboardRoleError,
			description: "unknown roles must not be defaulted to the user dashboard",
		},
		{
			name:        "empty role routes to error surface",
			role:        Role(""),
			expected:    DashboardRoleError,
			description: "a missing role is an explicit error, not a fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DashboardFor(tt.role); got != tt.expected {
				t.Errorf("expected destination %q, got %q (%s)", tt.expected, got, tt.description)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	tests := []struct {
		role  Role
		valid bool
	}{
		{RoleUser, true},
		{RoleAdmin, true},
		{Role("superuser"), false},
		{Role(""), false},
		{Role("Admin"), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.valid {
			t.Errorf("Role(%q).Valid() = %v, expected %v", tt.role, got, tt.valid)
		}
	}
}

func TestOTPPurpose_Valid(t *testing.T) {
	tests := []struct {
		purpose OTPPurpose
		valid   bool
	}{
		{OTPPurposeSignup, true},
		{OTPPurposeLogin, true},
		{OTPPurposePasswordReset, true},
		{OTPPurpose("mfa"), false},
		{OTPPurpose(""), false},
	}

	for _, tt := range tests {
		if got := tt.purpose.Valid(); got != tt.valid {
			t.Errorf("OTPPurpose(%q).Valid() = %v, expected %v", tt.purpose, got, tt.valid)
		}
	}
}

func TestSession_ExpiredAt(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour
	session := &Session{
		ID:        "sess_1_1",
		UserID:    1,
		Role:      RoleUser,
		CreatedAt: createdAt,
	}

	tests := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{
			name:    "valid immediately after creation",
			now:     createdAt,
			expired: false,
		},
		{
			name:    "valid just before TTL",
			now:     createdAt.Add(ttl - time.Second),
			expired: false,
		},
		{
			name:    "expired exactly at TTL",
			now:     createdAt.Add(ttl),
			expired: true,
		},
		{
			name:    "expired after TTL",
			now:     createdAt.Add(ttl + time.Hour),
			expired: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := session.ExpiredAt(tt.now, ttl); got != tt.expired {
				t.Errorf("ExpiredAt(%v) = %v, expected %v", tt.now, got, tt.expired)
			}
		})
	}
}

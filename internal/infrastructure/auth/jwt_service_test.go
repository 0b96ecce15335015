package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/xenithra/authcore/domain"
)

func newTestJWTService(accessTTL time.Duration) domain.TokenService {
	return NewJWTService("test-secret", "authcore-test", accessTTL, 7*24*time.Hour)
}

func testUser() *domain.User {
	return &domain.User{
		ID:       42,
		Username: "alice",
		Email:    "a@x.com",
		Role:     domain.RoleUser,
	}
}

func TestJWTService_IssueAndVerifyAccessToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	token, err := svc.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("expected username alice, got %s", claims.Username)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("expected email a@x.com, got %s", claims.Email)
	}
	if claims.Role != domain.RoleUser {
		t.Errorf("expected role user, got %s", claims.Role)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Error("expected expiry after issuance")
	}
}

func TestJWTService_VerifyExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)

	token, err := svc.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	_, err = svc.VerifyAccessToken(token)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTService_VerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	token, err := svc.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.VerifyAccessToken(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestJWTService_VerifyRejectsForeignSignature(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	other := NewJWTService("other-secret", "authcore-test", 15*time.Minute, 7*24*time.Hour)

	token, err := other.IssueAccessToken(testUser())
	if err != nil {
		t.Fatalf("IssueAccessToken failed: %v", err)
	}

	if _, err := svc.VerifyAccessToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

func TestJWTService_NewRefreshToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	raw, hash, err := svc.NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken failed: %v", err)
	}
	if len(raw) != refreshTokenBytes*2 {
		t.Errorf("expected %d hex chars, got %d", refreshTokenBytes*2, len(raw))
	}
	if hash != svc.HashRefreshToken(raw) {
		t.Error("returned hash does not match HashRefreshToken of the raw token")
	}

	raw2, hash2, err := svc.NewRefreshToken()
	if err != nil {
		t.Fatalf("NewRefreshToken failed: %v", err)
	}
	if raw == raw2 || hash == hash2 {
		t.Error("expected each refresh token to be unique")
	}
}

func TestJWTService_HashRefreshTokenIsDeterministic(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)

	if svc.HashRefreshToken("abc") != svc.HashRefreshToken("abc") {
		t.Error("expected stable hash for the same raw token")
	}
	if svc.HashRefreshToken("abc") == svc.HashRefreshToken("abd") {
		t.Error("expected different hashes for different raw tokens")
	}
}

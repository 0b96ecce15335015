package mocks

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/xenithra/authcore/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueAccessTokenFunc  func(user *domain.User) (string, error)
	VerifyAccessTokenFunc func(token string) (*domain.TokenClaims, error)
	NewRefreshTokenFunc   func() (string, string, error)
	HashRefreshTokenFunc  func(raw string) string
	AccessTTLFunc         func() time.Duration
	RefreshTTLFunc        func() time.Duration
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) IssueAccessToken(user *domain.User) (string, error) {
	if m.IssueAccessTokenFunc != nil {
		return m.IssueAccessTokenFunc(user)
	}
	return "access_token", nil
}

func (m *MockTokenService) VerifyAccessToken(token string) (*domain.TokenClaims, error) {
	if m.VerifyAccessTokenFunc != nil {
		return m.VerifyAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockTokenService) NewRefreshToken() (string, string, error) {
	if m.NewRefreshTokenFunc != nil {
		return m.NewRefreshTokenFunc()
	}
	raw := "refresh_token"
	return raw, m.HashRefreshToken(raw), nil
}

func (m *MockTokenService) HashRefreshToken(raw string) string {
	if m.HashRefreshTokenFunc != nil {
		return m.HashRefreshTokenFunc(raw)
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (m *MockTokenService) AccessTTL() time.Duration {
	if m.AccessTTLFunc != nil {
		return m.AccessTTLFunc()
	}
	return 15 * time.Minute
}

func (m *MockTokenService) RefreshTTL() time.Duration {
	if m.RefreshTTLFunc != nil {
		return m.RefreshTTLFunc()
	}
	return 7 * 24 * time.Hour
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)

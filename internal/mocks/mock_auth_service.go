package mocks

import (
	"context"

	"github.com/xenithra/authcore/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc        func(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	LoginFunc         func(ctx context.Context, identifier, password string, meta domain.SessionMeta) (*domain.AuthResult, error)
	RefreshFunc       func(ctx context.Context, rawRefreshToken string) (*domain.AuthResult, error)
	LogoutFunc        func(ctx context.Context, sessionID string, userID uint) error
	CurrentUserFunc   func(ctx context.Context, accessToken string) (*domain.User, error)
	VerifyOTPFunc     func(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error
	ResendOTPFunc     func(ctx context.Context, email string, purpose domain.OTPPurpose) error
	ResetPasswordFunc func(ctx context.Context, email, code, newPassword, confirmPassword string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	return &domain.User{ID: 1, Username: req.Username, Email: req.Email, Role: domain.RoleUser}, nil
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string, meta domain.SessionMeta) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password, meta)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) Refresh(ctx context.Context, rawRefreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, rawRefreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string, userID uint) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID, userID)
	}
	return nil
}

func (m *MockAuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx, accessToken)
	}
	return nil, domain.ErrUnauthenticated
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, purpose, code)
	}
	return nil
}

func (m *MockAuthService) ResendOTP(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, email, purpose)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, code, newPassword, confirmPassword)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)

package mocks

import (
	"context"
	"time"

	"github.com/xenithra/authcore/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc     func(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error)
	VerifyFunc    func(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error
	ResendFunc    func(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error)
	CanResendFunc func(ctx context.Context, email string, purpose domain.OTPPurpose) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func defaultRecord(email string, purpose domain.OTPPurpose) *domain.OTPRecord {
	now := time.Now()
	return &domain.OTPRecord{
		Email:     email,
		Purpose:   purpose,
		Code:      "123456",
		IssuedAt:  now,
		ExpiresAt: now.Add(5 * time.Minute),
	}
}

func (m *MockOTPService) Issue(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, email, purpose)
	}
	return defaultRecord(email, purpose), nil
}

func (m *MockOTPService) Verify(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, purpose, code)
	}
	return nil
}

func (m *MockOTPService) Resend(ctx context.Context, email string, purpose domain.OTPPurpose) (*domain.OTPRecord, error) {
	if m.ResendFunc != nil {
		return m.ResendFunc(ctx, email, purpose)
	}
	return defaultRecord(email, purpose), nil
}

func (m *MockOTPService) CanResend(ctx context.Context, email string, purpose domain.OTPPurpose) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, email, purpose)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)

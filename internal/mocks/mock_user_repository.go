package mocks

import (
	"context"
	"time"

	"github.com/xenithra/authcore/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc                     func(ctx context.Context, user *domain.User) error
	FindByUsernameFunc             func(ctx context.Context, username string) (*domain.User, error)
	FindByEmailFunc                func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFunc                   func(ctx context.Context, id uint) (*domain.User, error)
	FindByRefreshTokenHashFunc     func(ctx context.Context, hash string) (*domain.User, error)
	FindByPrevRefreshTokenHashFunc func(ctx context.Context, hash string) (*domain.User, error)
	SetRefreshTokenFunc            func(ctx context.Context, id uint, hash string, expiresAt time.Time) error
	RotateRefreshTokenFunc         func(ctx context.Context, id uint, oldHash, newHash string, expiresAt time.Time) error
	ClearRefreshTokenFunc          func(ctx context.Context, id uint) error
	ActivateEmailFunc              func(ctx context.Context, id uint) error
	UpdateRoleFunc                 func(ctx context.Context, id uint, role domain.Role) error
	UpdatePasswordFunc             func(ctx context.Context, id uint, passwordHash string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	if m.FindByRefreshTokenHashFunc != nil {
		return m.FindByRefreshTokenHashFunc(ctx, hash)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByPrevRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	if m.FindByPrevRefreshTokenHashFunc != nil {
		return m.FindByPrevRefreshTokenHashFunc(ctx, hash)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	if m.SetRefreshTokenFunc != nil {
		return m.SetRefreshTokenFunc(ctx, id, hash, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) RotateRefreshToken(ctx context.Context, id uint, oldHash, newHash string, expiresAt time.Time) error {
	if m.RotateRefreshTokenFunc != nil {
		return m.RotateRefreshTokenFunc(ctx, id, oldHash, newHash, expiresAt)
	}
	return nil
}

func (m *MockUserRepository) ClearRefreshToken(ctx context.Context, id uint) error {
	if m.ClearRefreshTokenFunc != nil {
		return m.ClearRefreshTokenFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) ActivateEmail(ctx context.Context, id uint) error {
	if m.ActivateEmailFunc != nil {
		return m.ActivateEmailFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id uint, role domain.Role) error {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)

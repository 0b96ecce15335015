package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/xenithra/authcore/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID                    uint   `gorm:"primaryKey"`
	Username              string `gorm:"uniqueIndex;size:64"`
	Email                 string `gorm:"uniqueIndex;size:255"`
	DisplayName           string `gorm:"size:128"`
	PasswordHash          string `gorm:"column:password"`
	Role                  string `gorm:"index;size:32"`
	EmailVerified         bool   `gorm:"index"`
	RefreshTokenHash      string `gorm:"index;size:64"`
	PrevRefreshTokenHash  string `gorm:"size:64"`
	RefreshTokenExpiresAt time.Time
	CreatedAt             time.Time `gorm:"index"`
	UpdatedAt             time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// normalize lower-cases an identity column before any read or write, so
// uniqueness is case-insensitive end to end.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Create implements domain.UserRepository. The unique indexes on username
// and email make the insert the atomic uniqueness check: a race between two
// signups leaves exactly one record and the loser gets a conflict error.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.classifyDuplicate(ctx, dbUser.Username, dbUser.Email)
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// classifyDuplicate decides which unique constraint the insert tripped.
func (r *UserRepositoryImpl) classifyDuplicate(ctx context.Context, username, email string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&DBUser{}).Where("username = ?", username).Count(&count).Error; err == nil && count > 0 {
		return domain.ErrDuplicateUsername
	}
	if err := r.db.WithContext(ctx).Model(&DBUser{}).Where("email = ?", email).Count(&count).Error; err == nil && count > 0 {
		return domain.ErrDuplicateEmail
	}
	return domain.ErrUserAlreadyExists
}

// FindByUsername implements domain.UserRepository
func (r *UserRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", normalize(username))
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", normalize(email))
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByRefreshTokenHash implements domain.UserRepository
func (r *UserRepositoryImpl) FindByRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	if hash == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "refresh_token_hash = ?", hash)
}

// FindByPrevRefreshTokenHash implements domain.UserRepository
func (r *UserRepositoryImpl) FindByPrevRefreshTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	if hash == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "prev_refresh_token_hash = ?", hash)
}

func (r *UserRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(query, arg).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// SetRefreshToken implements domain.UserRepository
func (r *UserRepositoryImpl) SetRefreshToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token_hash":       hash,
		"prev_refresh_token_hash":  "",
		"refresh_token_expires_at": expiresAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RotateRefreshToken implements domain.UserRepository. The WHERE clause on
// the old hash is the compare-and-swap: of two concurrent rotations with the
// same token exactly one matches a row, the other reports reuse.
func (r *UserRepositoryImpl) RotateRefreshToken(ctx context.Context, id uint, oldHash, newHash string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldHash).
		Updates(map[string]interface{}{
			"refresh_token_hash":       newHash,
			"prev_refresh_token_hash":  oldHash,
			"refresh_token_expires_at": expiresAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRefreshTokenReused
	}
	return nil
}

// ClearRefreshToken implements domain.UserRepository. Used on explicit
// revoke and when replay of a superseded token is detected.
func (r *UserRepositoryImpl) ClearRefreshToken(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token_hash":      "",
		"prev_refresh_token_hash": "",
	}).Error
}

// ActivateEmail implements domain.UserRepository
func (r *UserRepositoryImpl) ActivateEmail(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("email_verified", true).Error
}

// UpdateRole implements domain.UserRepository. Privileged operation; the
// caller is responsible for authorization.
func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, id uint, role domain.Role) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("role", string(role))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:                    user.ID,
		Username:              normalize(user.Username),
		Email:                 normalize(user.Email),
		DisplayName:           user.DisplayName,
		PasswordHash:          user.PasswordHash,
		Role:                  string(user.Role),
		EmailVerified:         user.EmailVerified,
		RefreshTokenHash:      user.RefreshTokenHash,
		PrevRefreshTokenHash:  user.PrevRefreshTokenHash,
		RefreshTokenExpiresAt: user.RefreshTokenExpiresAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:                    dbUser.ID,
		Username:              dbUser.Username,
		Email:                 dbUser.Email,
		DisplayName:           dbUser.DisplayName,
		PasswordHash:          dbUser.PasswordHash,
		Role:                  domain.Role(dbUser.Role),
		EmailVerified:         dbUser.EmailVerified,
		RefreshTokenHash:      dbUser.RefreshTokenHash,
		PrevRefreshTokenHash:  dbUser.PrevRefreshTokenHash,
		RefreshTokenExpiresAt: dbUser.RefreshTokenExpiresAt,
		CreatedAt:             dbUser.CreatedAt,
		UpdatedAt:             dbUser.UpdatedAt,
	}
}

package domain

import (
	"context"
	"time"
)

// UserRepository defines credential data access operations. Uniqueness on
// username and email is enforced at this boundary.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByRefreshTokenHash(ctx context.Context, hash string) (*User, error)
	FindByPrevRefreshTokenHash(ctx context.Context, hash string) (*User, error)
	// SetRefreshToken unconditionally installs a new refresh lineage at login.
	SetRefreshToken(ctx context.Context, id uint, hash string, expiresAt time.Time) error
	// RotateRefreshToken atomically swaps oldHash for newHash. When the
	// stored hash no longer matches oldHash the rotation lost a race and
	// ErrRefreshTokenReused is returned.
	RotateRefreshToken(ctx context.Context, id uint, oldHash, newHash string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, id uint) error
	ActivateEmail(ctx context.Context, id uint) error
	UpdateRole(ctx context.Context, id uint, role Role) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// SessionRepository defines session data access operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Touch(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
	// DeleteExpired removes sessions past their TTL and reports how many
	// were swept.
	DeleteExpired(ctx context.Context) (int, error)
}

// AuthService defines the authentication orchestration surface.
type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*User, error)
	Login(ctx context.Context, identifier, password string, meta SessionMeta) (*AuthResult, error)
	Refresh(ctx context.Context, rawRefreshToken string) (*AuthResult, error)
	// Logout destroys the principal's own session; a session belonging to
	// another principal is reported not found.
	Logout(ctx context.Context, sessionID string, userID uint) error
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
	VerifyOTP(ctx context.Context, email string, purpose OTPPurpose, code string) error
	ResendOTP(ctx context.Context, email string, purpose OTPPurpose) error
	// ResetPassword consumes a password-reset OTP, installs the new password,
	// and revokes the outstanding refresh lineage.
	ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) error
}

// OTPService defines one-time passcode operations.
type OTPService interface {
	Issue(ctx context.Context, email string, purpose OTPPurpose) (*OTPRecord, error)
	Verify(ctx context.Context, email string, purpose OTPPurpose, code string) error
	Resend(ctx context.Context, email string, purpose OTPPurpose) (*OTPRecord, error)
	CanResend(ctx context.Context, email string, purpose OTPPurpose) (bool, int64, error)
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token issuance and verification.
type TokenService interface {
	IssueAccessToken(user *User) (string, error)
	// VerifyAccessToken is a stateless signature and expiry check.
	VerifyAccessToken(token string) (*TokenClaims, error)
	// NewRefreshToken returns an opaque raw token and its storage hash.
	NewRefreshToken() (raw string, hash string, err error)
	HashRefreshToken(raw string) string
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// MailService delivers messages to an email address. Delivery failure is
// tolerated by callers as a non-fatal condition.
type MailService interface {
	Send(to, subject, body string) error
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the core depends on.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

package domain

import "time"

// Role is the authorization role attached to a credential.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the system models.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Dashboard names a post-authentication routing destination.
type Dashboard string

const (
	DashboardAdmin     Dashboard = "admin-dashboard"
	DashboardUser      Dashboard = "user-dashboard"
	DashboardRoleError Dashboard = "role-error"
)

// DashboardFor resolves the routing destination for a verified role claim.
// Unknown roles land on the role-error surface; they are never defaulted
// to the user dashboard.
func DashboardFor(role Role) Dashboard {
	switch role {
	case RoleAdmin:
		return DashboardAdmin
	case RoleUser:
		return DashboardUser
	default:
		return DashboardRoleError
	}
}

// OTPPurpose identifies the flow an OTP belongs to. At most one unconsumed,
// unexpired code exists per (email, purpose) pair.
type OTPPurpose string

const (
	OTPPurposeSignup        OTPPurpose = "signup-verification"
	OTPPurposeLogin         OTPPurpose = "login-verification"
	OTPPurposePasswordReset OTPPurpose = "password-reset"
)

// Valid reports whether the purpose is a modeled OTP flow.
func (p OTPPurpose) Valid() bool {
	switch p {
	case OTPPurposeSignup, OTPPurposeLogin, OTPPurposePasswordReset:
		return true
	}
	return false
}

// User represents a credential record in the system.
type User struct {
	ID          uint
	Username    string
	Email       string
	DisplayName string
	// PasswordHash holds the bcrypt hash; the plaintext is never stored.
	PasswordHash string
	Role         Role
	// EmailVerified flips to true once the signup OTP is consumed.
	EmailVerified bool
	// RefreshTokenHash is the SHA-256 hex of the single currently-valid raw
	// refresh token, empty when none is outstanding. PrevRefreshTokenHash
	// keeps the superseded hash so a replayed rotated token is detectable.
	RefreshTokenHash      string
	PrevRefreshTokenHash  string
	RefreshTokenExpiresAt time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// SignupRequest carries the enrollment input.
type SignupRequest struct {
	Username        string
	Email           string
	DisplayName     string
	Password        string
	ConfirmPassword string
	Role            Role
}

// AuthResult represents a successful authentication outcome.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
	Destination  Dashboard
}

// SessionMeta is best-effort client metadata captured at login.
type SessionMeta struct {
	ClientIP  string
	UserAgent string
}

// Session binds a principal to a bounded-lifetime interaction.
type Session struct {
	ID             string
	UserID         uint
	Role           Role
	ClientIP       string
	UserAgent      string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// ExpiredAt reports whether the session has outlived ttl at the given
// instant. An expired session is inert even before the sweep removes it.
func (s *Session) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return !now.Before(s.CreatedAt.Add(ttl))
}

// OTPRecord is a one-time passcode tied to an email and a purpose.
type OTPRecord struct {
	Email     string
	Purpose   OTPPurpose
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Consumed  bool
}

// TokenClaims represents verified access-token claims.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

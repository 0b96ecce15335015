package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xenithra/authcore/domain"
)

// MinPasswordLength is the enrollment password policy floor.
const MinPasswordLength = 6

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	logger *zap.Logger,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
		logger:      logger,
	}
}

// Signup implements domain.AuthService. The credential is created
// immediately; the signup OTP confirms the email before the account is
// marked trusted.
func (s *AuthServiceImpl) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if len(req.Password) < MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	hashedPassword, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:  req.DisplayName,
		PasswordHash: hashedPassword,
		Role:         role,
	}

	// The repository's unique indexes are the atomic uniqueness check; a
	// concurrent duplicate signup surfaces here as a conflict error.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := s.otpSvc.Issue(ctx, user.Email, domain.OTPPurposeSignup); err != nil {
		// The credential already exists; the caller can request a resend.
		s.logger.Warn("signup otp issue failed",
			zap.String("email", user.Email),
			zap.Error(err))
	}

	return user, nil
}

// Login implements domain.AuthService. A missing user and a wrong password
// return the identical error so the endpoint cannot be used to enumerate
// accounts. Storage failures are not folded in: a degraded store must not
// look like bad credentials.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string, meta domain.SessionMeta) (*domain.AuthResult, error) {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	accessToken, err := s.tokenSvc.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	rawRefresh, refreshHash, err := s.tokenSvc.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshHash, time.Now().Add(s.tokenSvc.RefreshTTL())); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	sessionID, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	now := time.Now()
	session := &domain.Session{
		ID:             sessionID,
		UserID:         user.ID,
		Role:           user.Role,
		ClientIP:       meta.ClientIP,
		UserAgent:      meta.UserAgent,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
		Destination:  domain.DashboardFor(user.Role),
	}, nil
}

// newSessionID returns an unguessable session identifier.
func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "sess_" + hex.EncodeToString(b), nil
}

// findByIdentifier resolves a login identifier as email or username.
func (s *AuthServiceImpl) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.userRepo.FindByEmail(ctx, identifier)
	}
	return s.userRepo.FindByUsername(ctx, identifier)
}

// Refresh implements domain.AuthService. Rotation is a storage-level
// compare-and-swap: of two concurrent refreshes with the same token exactly
// one succeeds, and a replayed superseded token revokes the whole lineage.
func (s *AuthServiceImpl) Refresh(ctx context.Context, rawRefreshToken string) (*domain.AuthResult, error) {
	if rawRefreshToken == "" {
		return nil, domain.ErrTokenInvalid
	}
	hash := s.tokenSvc.HashRefreshToken(rawRefreshToken)

	user, err := s.userRepo.FindByRefreshTokenHash(ctx, hash)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}

		// A token matching only the superseded hash was valid once and has
		// been rotated away: replay. Kill the lineage so the thief's copy
		// stops working too.
		prev, prevErr := s.userRepo.FindByPrevRefreshTokenHash(ctx, hash)
		if prevErr != nil {
			if errors.Is(prevErr, domain.ErrUserNotFound) {
				return nil, domain.ErrTokenInvalid
			}
			return nil, prevErr
		}
		if clearErr := s.userRepo.ClearRefreshToken(ctx, prev.ID); clearErr != nil {
			s.logger.Warn("failed to revoke refresh lineage after reuse",
				zap.Uint("user_id", prev.ID),
				zap.Error(clearErr))
		}
		s.logger.Warn("refresh token reuse detected",
			zap.Uint("user_id", prev.ID))
		return nil, domain.ErrRefreshTokenReused
	}

	if time.Now().After(user.RefreshTokenExpiresAt) {
		return nil, domain.ErrTokenExpired
	}

	newRaw, newHash, err := s.tokenSvc.NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.RotateRefreshToken(ctx, user.ID, hash, newHash, time.Now().Add(s.tokenSvc.RefreshTTL())); err != nil {
		return nil, err
	}

	accessToken, err := s.tokenSvc.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRaw,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
		Destination:  domain.DashboardFor(user.Role),
	}, nil
}

// Logout implements domain.AuthService. Destroys the session only;
// outstanding refresh tokens survive unless explicitly revoked. A session
// owned by another principal reads as not found, so the endpoint cannot be
// used to tear down or enumerate foreign sessions.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string, userID uint) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.UserID != userID {
		return domain.ErrSessionNotFound
	}
	return s.sessionRepo.Delete(ctx, sessionID)
}

// CurrentUser implements domain.AuthService
func (s *AuthServiceImpl) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := s.tokenSvc.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.userRepo.FindByID(ctx, claims.UserID)
}

// VerifyOTP implements domain.AuthService. Consuming a signup-verification
// code marks the credential's email as verified.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, email string, purpose domain.OTPPurpose, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.otpSvc.Verify(ctx, email, purpose, code); err != nil {
		return err
	}

	if purpose == domain.OTPPurposeSignup {
		user, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := s.userRepo.ActivateEmail(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to activate email: %w", err)
		}
	}

	return nil
}

// ResendOTP implements domain.AuthService
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, email string, purpose domain.OTPPurpose) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := s.otpSvc.Resend(ctx, email, purpose)
	return err
}

// ResetPassword implements domain.AuthService. The consumed OTP is the
// proof of mailbox control; every outstanding refresh token is revoked so
// a stolen token does not survive the password change.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return domain.ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return domain.ErrWeakPassword
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.otpSvc.Verify(ctx, email, domain.OTPPurposePasswordReset, code); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashedPassword, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}
	if err := s.userRepo.ClearRefreshToken(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	return nil
}

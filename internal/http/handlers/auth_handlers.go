package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xenithra/authcore/domain"
)

// AuthHandlers handles authentication HTTP requests.
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// SignupRequest represents the enrollment request
type SignupRequest struct {
	Username        string `json:"username" binding:"required,min=3"`
	Email           string `json:"email" binding:"required,email"`
	DisplayName     string `json:"display_name,omitempty"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Role            string `json:"role,omitempty"`
}

// LoginRequest represents the login request; identifier is username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// OTPVerifyRequest represents the OTP verification request
type OTPVerifyRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Code    string `json:"code" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// OTPResendRequest represents the OTP resend request
type OTPResendRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Purpose string `json:"purpose" binding:"required"`
}

// PasswordResetRequest represents the OTP-backed password reset request
type PasswordResetRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Code            string `json:"code" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// RefreshRequest represents the token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest represents the logout request
type LogoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Signup handles credential enrollment.
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := h.authSvc.Signup(c.Request.Context(), domain.SignupRequest{
		Username:        req.Username,
		Email:           req.Email,
		DisplayName:     req.DisplayName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            domain.Role(req.Role),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Account created. Please verify your email address.", gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// Login handles primary authentication.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	meta := domain.SessionMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Identifier, req.Password, meta)
	if err != nil {
		// Same envelope for unknown user and wrong password.
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respond(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
		"session_id":    result.SessionID,
		"destination":   result.Destination,
		"user": gin.H{
			"id":             result.User.ID,
			"username":       result.User.Username,
			"email":          result.User.Email,
			"role":           result.User.Role,
			"email_verified": result.User.EmailVerified,
		},
	})
}

// VerifyOTP handles OTP verification for signup, login, and password-reset
// flows. OTP failures are specific (expired vs mismatch): the caller has
// already proven control of the mailbox by receiving the code.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	err := h.authSvc.VerifyOTP(c.Request.Context(), req.Email, domain.OTPPurpose(req.Purpose), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Code verified", nil)
}

// ResendOTP handles issuing a fresh OTP, invalidating the outstanding one.
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req OTPResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.authSvc.ResendOTP(c.Request.Context(), req.Email, domain.OTPPurpose(req.Purpose)); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Code sent", nil)
}

// ResetPassword consumes a password-reset OTP and installs a new password.
// All outstanding refresh tokens are revoked; active access tokens run out
// on their own short expiry.
func (h *AuthHandlers) ResetPassword(c *gin.Context) {
	var req PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword, req.ConfirmPassword); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password updated. Please log in again.", nil)
}

// Refresh handles token rotation.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Token refreshed", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
	})
}

// Me returns the authenticated principal (requires authentication).
func (h *AuthHandlers) Me(c *gin.Context) {
	token, exists := c.Get("access_token")
	if !exists {
		respond(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	user, err := h.authSvc.CurrentUser(c.Request.Context(), token.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "OK", gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"display_name":   user.DisplayName,
		"role":           user.Role,
		"email_verified": user.EmailVerified,
		"created_at":     user.CreatedAt,
	})
}

// Dashboard resolves the post-auth routing destination from the verified
// role claim, never from client input. Unknown roles get the role-error
// surface instead of being defaulted to the user dashboard.
func (h *AuthHandlers) Dashboard(c *gin.Context) {
	role, exists := c.Get("user_role")
	if !exists {
		respond(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	destination := domain.DashboardFor(domain.Role(role.(string)))
	if destination == domain.DashboardRoleError {
		respond(c, http.StatusForbidden, "account role is not recognized", gin.H{
			"destination": destination,
		})
		return
	}

	respond(c, http.StatusOK, "OK", gin.H{"destination": destination})
}

// Logout destroys the caller's session (requires authentication). The
// owning principal comes from the verified token claims, so a caller can
// only tear down its own sessions.
func (h *AuthHandlers) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	rawID, exists := c.Get("user_id")
	if !exists {
		respond(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	idStr, ok := rawID.(string)
	if !ok {
		respond(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	userID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respond(c, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), req.SessionID, uint(userID)); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Logged out", nil)
}

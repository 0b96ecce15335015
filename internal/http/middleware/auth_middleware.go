package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xenithra/authcore/domain"
)

// AuthMW wraps the token service and session repository for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.sessionRepo)
}

func abort(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
	c.Abort()
}

// AuthMiddleware verifies the Bearer access token. The token check itself
// is stateless (signature + expiry). When the client also presents its
// session id in X-Session-ID, the session is validated against the
// principal and its last-activity timestamp is refreshed.
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, "Authorization header required")
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abort(c, "Invalid authorization header format")
			return
		}
		token := tokenParts[1]

		claims, err := tokenSvc.VerifyAccessToken(token)
		if err != nil {
			if errors.Is(err, domain.ErrTokenExpired) {
				abort(c, "Token expired")
				return
			}
			abort(c, "Invalid token")
			return
		}

		if sessionID := c.GetHeader("X-Session-ID"); sessionID != "" {
			session, err := sessionRepo.FindByID(c.Request.Context(), sessionID)
			if err != nil || session == nil {
				abort(c, "Session invalid or expired")
				return
			}
			if session.UserID != claims.UserID {
				abort(c, "Session user mismatch")
				return
			}
			// Best-effort last-activity update.
			_ = sessionRepo.Touch(c.Request.Context(), sessionID)
			c.Set("session_id", sessionID)
		}

		c.Set("access_token", token)
		c.Set("user_id", fmt.Sprintf("%d", claims.UserID))
		c.Set("user_role", string(claims.Role))

		c.Next()
	}
}

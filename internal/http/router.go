package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/xenithra/authcore/internal/http/handlers"
	"github.com/xenithra/authcore/internal/http/middleware"
)

// BuildRouter wires the public auth surface, the authenticated surface, and
// the casbin-gated admin surface.
func BuildRouter(ah *handlers.AuthHandlers, adh *handlers.AdminHandlers, jwtmw *middleware.AuthMW, cb *middleware.CasbinMW) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	auth := r.Group("/auth")
	auth.POST("/signup", ah.Signup)
	auth.POST("/login", ah.Login)
	auth.POST("/otp/verify", ah.VerifyOTP)
	auth.POST("/otp/resend", ah.ResendOTP)
	auth.POST("/password/reset", ah.ResetPassword)
	auth.POST("/refresh", ah.Refresh)

	v := r.Group("/").Use(jwtmw.WithJWT())
	v.GET("/auth/me", ah.Me)
	v.GET("/auth/dashboard", ah.Dashboard)
	v.POST("/auth/logout", ah.Logout)

	adm := r.Group("/admin").Use(jwtmw.WithJWT(), cb.Enforce())
	adm.PUT("/users/:id/role", adh.UpdateUserRole)
	adm.GET("/policies", adh.ListPolicies)
	adm.POST("/policies", adh.AddPolicy)
	adm.DELETE("/policies", adh.RemovePolicy)

	return r
}

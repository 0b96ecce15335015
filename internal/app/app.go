package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/xenithra/authcore/domain"
	"github.com/xenithra/authcore/internal/config"
	httpx "github.com/xenithra/authcore/internal/http"
	"github.com/xenithra/authcore/internal/http/handlers"
	"github.com/xenithra/authcore/internal/http/middleware"
	"github.com/xenithra/authcore/internal/services"
)

// Run wires the container, seeds default policies, starts the session
// sweeper, and serves HTTP until the process exits.
func Run(cfg *config.Config, logger *zap.Logger) error {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	authH := handlers.NewAuthHandlers(container.AuthSvc)
	adminH := handlers.NewAdminHandlers(container.UserRepo, container.PolicySvc)

	jwtMW := middleware.NewAuthMW(container.TokenSvc, container.SessionRepo)
	casbinMW := middleware.NewCasbinMW(container.Casbin.E)

	r := httpx.BuildRouter(authH, adminH, jwtMW, casbinMW)

	if err := seedDefaultPolicies(services.NewCasbinEnforcerWrapper(container.Casbin.E), logger); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := services.NewSessionSweeper(container.SessionRepo, cfg.SessionSweepInterval, logger)
	go sweeper.Run(ctx)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, r)
}

// seedDefaultPolicies installs the baseline admin policy into an empty
// policy table. A failed seed aborts startup; an admin surface with no
// policy rows would deny every request.
func seedDefaultPolicies(enforcer domain.CasbinEnforcer, logger *zap.Logger) error {
	policies, err := enforcer.GetPolicy()
	if err != nil {
		return fmt.Errorf("failed to read casbin policies: %w", err)
	}
	if len(policies) > 0 {
		return nil
	}

	if _, err := enforcer.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"); err != nil {
		return fmt.Errorf("failed to seed casbin policy: %w", err)
	}
	if err := enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("failed to persist casbin policies: %w", err)
	}

	logger.Info("casbin: seeded default policies")
	return nil
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	healthfeature "github.com/sharmaacademy/academyhub/internal/app/features/health"
	loginfeature "github.com/sharmaacademy/academyhub/internal/app/features/login"
	logoutfeature "github.com/sharmaacademy/academyhub/internal/app/features/logout"
	registerfeature "github.com/sharmaacademy/academyhub/internal/app/features/register"
	usersfeature "github.com/sharmaacademy/academyhub/internal/app/features/users"
	userstore "github.com/sharmaacademy/academyhub/internal/app/store/users"
	"github.com/sharmaacademy/academyhub/internal/app/system/auth"
	"github.com/sharmaacademy/academyhub/internal/app/system/bulkimport"
	"github.com/sharmaacademy/academyhub/internal/app/system/passwordpolicy"
	"github.com/sharmaacademy/academyhub/internal/app/system/txn"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. It wires the session store, the
// user store, and the bulk import engine (with its registry, policy,
// hasher, and transaction runner injected explicitly), then mounts the
// feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	if err := auth.InitSessionStore(appCfg.SessionKey, appCfg.SessionDomain, secure, logger); err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	policy := passwordpolicy.Policy{MinLength: appCfg.PasswordMinLength}
	users := userstore.New(deps.MongoDatabase)

	// The user store doubles as the referral registry: codes live on
	// institute user documents.
	importer := bulkimport.New(users, users, policy, logger)
	importer.RunTxn = func(ctx context.Context, fn func(ctx context.Context) error) error {
		return txn.Run(ctx, deps.MongoClient, fn)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(auth.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Public registration
	registerHandler := registerfeature.NewHandler(users, policy, logger)
	r.Mount("/register", registerfeature.Routes(registerHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// User management (list/get/update/delete + CSV bulk import)
	usersHandler := usersfeature.NewHandler(users, importer, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	return r, nil
}

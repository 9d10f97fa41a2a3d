// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/sharmaacademy/academyhub/internal/app/store/users"
	"github.com/sharmaacademy/academyhub/internal/app/system/bulkimport"
	"github.com/sharmaacademy/academyhub/internal/domain/models"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
//
// When admin_email/admin_password are configured, it ensures the
// bootstrap admin account exists: an existing account with that email is
// promoted to admin, otherwise a fresh admin account is created.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	store := userstore.New(deps.MongoDatabase)

	existing, err := store.GetByEmail(ctx, appCfg.AdminEmail)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		if err := store.PromoteToAdmin(ctx, existing.ID); err != nil {
			return fmt.Errorf("promote bootstrap admin: %w", err)
		}
		logger.Info("promoted bootstrap admin", zap.String("email", existing.Email))
		return nil

	case errors.Is(err, mongo.ErrNoDocuments):
		hash, err := bulkimport.HashPassword(appCfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("hash bootstrap admin password: %w", err)
		}
		admin, err := store.Create(ctx, models.User{
			FullName:     "Administrator",
			Email:        appCfg.AdminEmail,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("create bootstrap admin: %w", err)
		}
		logger.Info("created bootstrap admin", zap.String("email", admin.Email))
		return nil

	default:
		return fmt.Errorf("look up bootstrap admin: %w", err)
	}
}

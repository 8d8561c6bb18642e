// Package bootstrap wires up process-level runtime dependencies shared by the
// server and CLI entry points.
package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"hikari/internal/cache"
	"hikari/internal/config"
	"hikari/internal/database"
	"hikari/internal/models"
	"hikari/internal/seed"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to the database and Redis and optionally seeds the
// built-in tag set. The Redis client may be nil when Redis is unreachable;
// every caching feature degrades without it.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureDevAdmin(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedBuiltIns {
		if err := seed.Tags(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in tags: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAdmin creates or repairs the local admin account in development so
// the admin console is reachable on a fresh database.
func ensureDevAdmin(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "hikari_admin"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = "admin@hikari.local"
	}
	password := cfg.DevAdminPassword
	if password == "" {
		return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var admin models.User
		findErr := tx.Where("email = ?", email).First(&admin).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			admin = models.User{
				Username:     username,
				Email:        email,
				PasswordHash: string(hashed),
				Role:         models.RoleAdmin,
			}
			return tx.Create(&admin).Error
		case findErr != nil:
			return findErr
		}

		// Account exists: make sure it still has the admin role and the
		// configured password.
		return tx.Model(&admin).Updates(map[string]interface{}{
			"role":          models.RoleAdmin,
			"password_hash": string(hashed),
		}).Error
	})
}

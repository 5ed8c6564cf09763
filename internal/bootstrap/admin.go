// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukerupert/vendora/internal/auth"
	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
)

// AdminConfig contains configuration for the initial admin user.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdmin creates the initial admin user if it doesn't exist.
// This function is idempotent - safe to call on every startup.
//
// If an account with the email already exists it is left untouched, whatever
// its role. A nil config or one with empty Email/Password logs a warning and
// skips creation.
func EnsureAdmin(ctx context.Context, repo repository.Querier, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - ADMIN_EMAIL or ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin user on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		if existing.Role != string(domain.RoleAdmin) {
			logger.Warn("bootstrap: admin email belongs to a non-admin account", "email", email)
		} else {
			logger.Info("bootstrap: admin user already exists", "email", email)
		}
		return nil
	}
	if !repository.IsNotFound(err) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "Admin"
	}

	user, err := repo.CreateUser(ctx, repository.CreateUserParams{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(domain.RoleAdmin),
	})
	if err != nil {
		// Another instance created it between the lookup and the insert.
		if repository.IsUniqueViolation(err) {
			logger.Info("bootstrap: admin user already exists (concurrent creation)", "email", email)
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("bootstrap: admin user created successfully",
		"email", email,
		"user_id", user.ID,
	)
	return nil
}

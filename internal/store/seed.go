package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/cvdesk-go/internal/auth"
	"github.com/olegiv/cvdesk-go/internal/model"
)

// Seed creates the initial admin account if it does not exist. An empty
// password disables seeding entirely so production deployments can manage
// the account out of band.
func Seed(ctx context.Context, db *sql.DB, adminEmail, adminPassword string) error {
	if adminPassword == "" {
		slog.Info("admin password not configured, skipping seed")
		return nil
	}

	queries := New(db)

	// Check if admin user already exists
	_, err := queries.GetUserByEmail(ctx, adminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        adminEmail,
		PasswordHash: passwordHash,
		FirstName:    "Admin",
		LastName:     "CVdesk",
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

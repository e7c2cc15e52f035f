// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/olegiv/cvdesk-go/internal/auth"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/store"
)

// AccountService handles registration and authentication.
type AccountService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{
		db:      db,
		queries: store.New(db),
	}
}

// RegisterParams holds the registration form fields.
type RegisterParams struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Register validates the registration form, creates the user with an empty
// profile in one transaction, and returns the new user. All validation
// failures are collected into a single ValidationError.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (model.User, error) {
	firstName := strings.TrimSpace(params.FirstName)
	lastName := strings.TrimSpace(params.LastName)
	email := strings.TrimSpace(params.Email)

	var messages []string
	if firstName == "" {
		messages = append(messages, "First name is required")
	}
	if lastName == "" {
		messages = append(messages, "Last name is required")
	}
	if email == "" {
		messages = append(messages, "Email is required")
	} else if !isValidEmail(email) {
		messages = append(messages, "Email address is not valid")
	}
	messages = append(messages, auth.ValidatePassword(params.Password, params.PasswordConfirm)...)
	if err := NewValidationError(messages); err != nil {
		return model.User{}, err
	}

	if email != "" {
		count, err := s.queries.CountUsersByEmail(ctx, email)
		if err != nil {
			return model.User{}, fmt.Errorf("checking email: %w", err)
		}
		if count > 0 {
			return model.User{}, ErrDuplicateEmail
		}
	}

	passwordHash, err := auth.HashPassword(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()
	user, err := qtx.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         model.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// Concurrent registration can slip past the count check; the
		// unique index catches it here.
		if isUniqueViolation(err) {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	if err := qtx.CreateProfile(ctx, store.CreateProfileParams{UserID: user.ID, UpdatedAt: now}); err != nil {
		return model.User{}, fmt.Errorf("creating profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, fmt.Errorf("committing transaction: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email/password pair and returns the user.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrInvalidCredentials
	}

	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: time.Now(), Valid: true},
		ID:          user.ID,
	}); err != nil {
		return model.User{}, fmt.Errorf("recording login: %w", err)
	}

	return user, nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

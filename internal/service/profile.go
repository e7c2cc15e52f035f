// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/store"
)

// ProfileService handles reads and updates of student CV profiles.
type ProfileService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewProfileService creates a new ProfileService.
func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{
		db:      db,
		queries: store.New(db),
	}
}

// ProfileView bundles everything the dashboard needs for one student.
type ProfileView struct {
	User        model.User
	Profile     model.Profile
	Experiences []model.Experience
}

// Get returns a student's full profile view. Returns ErrNotFound if the
// user does not exist.
func (s *ProfileService) Get(ctx context.Context, userID int64) (ProfileView, error) {
	user, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("loading user: %w", err)
	}

	profile, err := s.queries.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("loading profile: %w", err)
	}

	experiences, err := s.queries.ListExperiencesByUser(ctx, userID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("loading experiences: %w", err)
	}

	return ProfileView{User: user, Profile: profile, Experiences: experiences}, nil
}

// GetStudent is the admin variant of Get: it only resolves student
// accounts, so admin rows stay invisible in the browsing views.
func (s *ProfileService) GetStudent(ctx context.Context, userID int64) (ProfileView, error) {
	user, err := s.queries.GetStudentByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, fmt.Errorf("loading student: %w", err)
	}
	return s.Get(ctx, user.ID)
}

// UpdateParams holds the editable profile form fields. Name and email live
// on the user row; the rest on the profile row.
type UpdateParams struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	BirthDate   string // yyyy-mm-dd, empty clears
	City        string
	Address     string
	Nationality string
	LinkedinURL string
	Hobby       string
	Skills      string
	Languages   string
}

// Update validates and saves a student's profile. Email uniqueness excludes
// the student's own row so saving an unchanged email succeeds.
func (s *ProfileService) Update(ctx context.Context, userID int64, params UpdateParams) error {
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

	var birthDate sql.NullTime
	if bd := strings.TrimSpace(params.BirthDate); bd != "" {
		t, err := time.Parse(model.DateLayout, bd)
		if err != nil {
			messages = append(messages, "Birth date is not a valid date")
		} else {
			birthDate = sql.NullTime{Time: t, Valid: true}
		}
	}

	linkedin := strings.TrimSpace(params.LinkedinURL)
	if linkedin != "" && !isValidHTTPURL(linkedin) {
		messages = append(messages, "LinkedIn URL is not valid")
	}

	if err := NewValidationError(messages); err != nil {
		return err
	}

	count, err := s.queries.CountUsersByEmailExcluding(ctx, email, userID)
	if err != nil {
		return fmt.Errorf("checking email: %w", err)
	}
	if count > 0 {
		return ErrDuplicateEmail
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()
	if err := qtx.UpdateUserIdentity(ctx, store.UpdateUserIdentityParams{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		UpdatedAt: now,
		ID:        userID,
	}); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("updating user: %w", err)
	}

	if err := qtx.UpsertProfile(ctx, store.UpsertProfileParams{
		Phone:       strings.TrimSpace(params.Phone),
		BirthDate:   birthDate,
		City:        strings.TrimSpace(params.City),
		Address:     strings.TrimSpace(params.Address),
		Nationality: strings.TrimSpace(params.Nationality),
		LinkedinURL: linkedin,
		Hobby:       strings.TrimSpace(params.Hobby),
		Skills:      strings.TrimSpace(params.Skills),
		Languages:   strings.TrimSpace(params.Languages),
		UpdatedAt:   now,
		UserID:      userID,
	}); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	return tx.Commit()
}

// ListStudents returns the admin listing rows.
func (s *ProfileService) ListStudents(ctx context.Context) ([]store.StudentSummary, error) {
	return s.queries.ListStudentSummaries(ctx)
}

// DashboardStats returns the admin dashboard counters.
func (s *ProfileService) DashboardStats(ctx context.Context) (store.DashboardStats, error) {
	return s.queries.GetDashboardStats(ctx)
}

func isValidHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

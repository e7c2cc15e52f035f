// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/store"
)

// ExperienceService handles work and education history entries.
type ExperienceService struct {
	queries *store.Queries
}

// NewExperienceService creates a new ExperienceService.
func NewExperienceService(db *sql.DB) *ExperienceService {
	return &ExperienceService{queries: store.New(db)}
}

// AddParams holds the experience form fields. Dates arrive as yyyy-mm-dd
// strings from the form.
type AddParams struct {
	Type         string
	Title        string
	Organization string
	StartDate    string
	EndDate      string
	IsOngoing    bool
	Description  string
}

// Add validates and stores a new experience entry for the user. An ongoing
// entry always stores a null end date, even if one was submitted.
func (s *ExperienceService) Add(ctx context.Context, userID int64, params AddParams) (model.Experience, error) {
	title := strings.TrimSpace(params.Title)
	organization := strings.TrimSpace(params.Organization)

	var messages []string
	if !model.IsValidExperienceType(params.Type) {
		messages = append(messages, "Experience type must be work or education")
	}
	if title == "" {
		messages = append(messages, "Title is required")
	}
	if organization == "" {
		messages = append(messages, "Organization is required")
	}

	var startDate time.Time
	if sd := strings.TrimSpace(params.StartDate); sd == "" {
		messages = append(messages, "Start date is required")
	} else {
		var err error
		startDate, err = time.Parse(model.DateLayout, sd)
		if err != nil {
			messages = append(messages, "Start date is not a valid date")
		}
	}

	var endDate sql.NullTime
	if !params.IsOngoing {
		if ed := strings.TrimSpace(params.EndDate); ed == "" {
			messages = append(messages, "End date is required")
		} else {
			t, err := time.Parse(model.DateLayout, ed)
			if err != nil {
				messages = append(messages, "End date is not a valid date")
			} else if !startDate.IsZero() && t.Before(startDate) {
				messages = append(messages, "End date cannot be before start date")
			} else {
				endDate = sql.NullTime{Time: t, Valid: true}
			}
		}
	}

	if err := NewValidationError(messages); err != nil {
		return model.Experience{}, err
	}

	exp, err := s.queries.CreateExperience(ctx, store.CreateExperienceParams{
		UserID:       userID,
		Type:         params.Type,
		Title:        title,
		Organization: organization,
		StartDate:    startDate,
		EndDate:      endDate,
		IsOngoing:    params.IsOngoing,
		Description:  strings.TrimSpace(params.Description),
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return model.Experience{}, fmt.Errorf("creating experience: %w", err)
	}
	return exp, nil
}

// List returns the user's experience entries, newest start date first.
func (s *ExperienceService) List(ctx context.Context, userID int64) ([]model.Experience, error) {
	return s.queries.ListExperiencesByUser(ctx, userID)
}

// Delete removes an entry owned by the user. A missing entry and another
// student's entry both return ErrNotFound.
func (s *ExperienceService) Delete(ctx context.Context, userID, experienceID int64) error {
	n, err := s.queries.DeleteExperience(ctx, store.DeleteExperienceParams{
		ID:     experienceID,
		UserID: userID,
	})
	if err != nil {
		return fmt.Errorf("deleting experience: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Experience types.
const (
	ExperienceWork      = "work"
	ExperienceEducation = "education"
)

// DateLayout is the wire format for experience dates.
const DateLayout = "2006-01-02"

// Experience is a single work or education entry on a user's CV.
// Entries are added and deleted, never edited in place.
type Experience struct {
	ID           int64        `json:"id"`
	UserID       int64        `json:"user_id"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Organization string       `json:"organization"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      sql.NullTime `json:"end_date,omitempty"`
	IsOngoing    bool         `json:"is_ongoing"`
	Description  string       `json:"description"`
	CreatedAt    time.Time    `json:"created_at"`
}

// IsValidExperienceType reports whether t is a known experience type.
func IsValidExperienceType(t string) bool {
	return t == ExperienceWork || t == ExperienceEducation
}

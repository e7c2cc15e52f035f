// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Profile holds a user's CV data. At most one row exists per user; the row
// is created empty at registration and filled in by later updates.
type Profile struct {
	ID               int64          `json:"id"`
	UserID           int64          `json:"user_id"`
	Phone            string         `json:"phone"`
	BirthDate        sql.NullTime   `json:"birth_date,omitempty"`
	City             string         `json:"city"`
	Address          string         `json:"address"`
	Nationality      string         `json:"nationality"`
	LinkedinURL      string         `json:"linkedin_url"`
	Hobby            string         `json:"hobby"`
	Skills           string         `json:"skills"`
	Languages        string         `json:"languages"`
	ResumePath       sql.NullString `json:"-"` // Server-side artifact path
	ResumeUploadedAt sql.NullTime   `json:"resume_uploaded_at,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// HasResume returns true if a résumé artifact is on file.
func (p Profile) HasResume() bool {
	return p.ResumePath.Valid && p.ResumePath.String != ""
}

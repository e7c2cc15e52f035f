// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/cvdesk-go/internal/model"
)

const profileColumns = `id, user_id, phone, birth_date, city, address, nationality,
	linkedin_url, hobby, skills, languages, resume_path, resume_uploaded_at, updated_at`

func scanProfile(row *sql.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.Phone, &p.BirthDate, &p.City, &p.Address,
		&p.Nationality, &p.LinkedinURL, &p.Hobby, &p.Skills, &p.Languages,
		&p.ResumePath, &p.ResumeUploadedAt, &p.UpdatedAt)
	return p, err
}

// CreateProfileParams holds the fields for inserting a profile row.
type CreateProfileParams struct {
	UserID    int64
	UpdatedAt time.Time
}

// CreateProfile inserts an empty profile for a new user. The unique index on
// user_id keeps the one-profile-per-user invariant.
func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, updated_at) VALUES (?, ?)`,
		arg.UserID, arg.UpdatedAt)
	return err
}

// GetProfileByUserID returns the profile belonging to the given user.
func (q *Queries) GetProfileByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	return scanProfile(q.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, userID))
}

// UpsertProfileParams holds the editable profile fields.
type UpsertProfileParams struct {
	Phone       string
	BirthDate   sql.NullTime
	City        string
	Address     string
	Nationality string
	LinkedinURL string
	Hobby       string
	Skills      string
	Languages   string
	UpdatedAt   time.Time
	UserID      int64
}

// UpsertProfile overwrites the editable fields of a user's profile, creating
// the row if it does not exist yet. The unique index on user_id carries the
// conflict target.
func (q *Queries) UpsertProfile(ctx context.Context, arg UpsertProfileParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO profiles (user_id, phone, birth_date, city, address,
		 nationality, linkedin_url, hobby, skills, languages, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		 phone = excluded.phone, birth_date = excluded.birth_date,
		 city = excluded.city, address = excluded.address,
		 nationality = excluded.nationality, linkedin_url = excluded.linkedin_url,
		 hobby = excluded.hobby, skills = excluded.skills,
		 languages = excluded.languages, updated_at = excluded.updated_at`,
		arg.UserID, arg.Phone, arg.BirthDate, arg.City, arg.Address,
		arg.Nationality, arg.LinkedinURL, arg.Hobby, arg.Skills, arg.Languages,
		arg.UpdatedAt)
	return err
}

// UpdateResumeRefParams holds the stored résumé reference for a user.
type UpdateResumeRefParams struct {
	ResumePath       sql.NullString
	ResumeUploadedAt sql.NullTime
	UserID           int64
}

// UpdateResumeRef points a profile at a new résumé artifact (or clears it
// when both fields are null).
func (q *Queries) UpdateResumeRef(ctx context.Context, arg UpdateResumeRefParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE profiles SET resume_path = ?, resume_uploaded_at = ? WHERE user_id = ?`,
		arg.ResumePath, arg.ResumeUploadedAt, arg.UserID)
	return err
}

// ListResumePaths returns every résumé path currently referenced by a profile.
// Used by the janitor to detect orphaned files on disk.
func (q *Queries) ListResumePaths(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT resume_path FROM profiles WHERE resume_path IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

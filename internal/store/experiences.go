// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/cvdesk-go/internal/model"
)

const experienceColumns = `id, user_id, type, title, organization, start_date,
	end_date, is_ongoing, description, created_at`

// CreateExperienceParams holds the fields for inserting an experience entry.
type CreateExperienceParams struct {
	UserID       int64
	Type         string
	Title        string
	Organization string
	StartDate    time.Time
	EndDate      sql.NullTime
	IsOngoing    bool
	Description  string
	CreatedAt    time.Time
}

// CreateExperience inserts a work or education entry and returns the stored row.
func (q *Queries) CreateExperience(ctx context.Context, arg CreateExperienceParams) (model.Experience, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO experiences (user_id, type, title, organization, start_date, end_date, is_ongoing, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UserID, arg.Type, arg.Title, arg.Organization, arg.StartDate,
		arg.EndDate, arg.IsOngoing, arg.Description, arg.CreatedAt)
	if err != nil {
		return model.Experience{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Experience{}, err
	}

	var e model.Experience
	err = q.db.QueryRowContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences WHERE id = ?`, id).
		Scan(&e.ID, &e.UserID, &e.Type, &e.Title, &e.Organization, &e.StartDate,
			&e.EndDate, &e.IsOngoing, &e.Description, &e.CreatedAt)
	return e, err
}

// ListExperiencesByUser returns a user's experience entries, newest start
// date first, with insertion order as the tiebreak.
func (q *Queries) ListExperiencesByUser(ctx context.Context, userID int64) ([]model.Experience, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+experienceColumns+` FROM experiences
		 WHERE user_id = ?
		 ORDER BY start_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var list []model.Experience
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Title, &e.Organization,
			&e.StartDate, &e.EndDate, &e.IsOngoing, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// DeleteExperienceParams scopes a delete to the owning user.
type DeleteExperienceParams struct {
	ID     int64
	UserID int64
}

// DeleteExperience removes an entry only if it belongs to the given user.
// Returns the number of rows deleted so callers can distinguish a missing
// row from a foreign one without leaking which it was.
func (q *Queries) DeleteExperience(ctx context.Context, arg DeleteExperienceParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM experiences WHERE id = ? AND user_id = ?`, arg.ID, arg.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

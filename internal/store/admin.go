// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/cvdesk-go/internal/model"
)

// StudentSummary is one row of the admin student listing.
type StudentSummary struct {
	ID             int64
	Email          string
	FirstName      string
	LastName       string
	City           string
	HasResume      bool
	WorkCount      int64
	EducationCount int64
	CreatedAt      time.Time
}

// ListStudentSummaries returns every student with listing-level profile data,
// ordered by last name then first name.
func (q *Queries) ListStudentSummaries(ctx context.Context) ([]StudentSummary, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.first_name, u.last_name,
			COALESCE(p.city, ''),
			COALESCE(p.resume_path IS NOT NULL, 0),
			(SELECT COUNT(*) FROM experiences e WHERE e.user_id = u.id AND e.type = 'work'),
			(SELECT COUNT(*) FROM experiences e WHERE e.user_id = u.id AND e.type = 'education'),
			u.created_at
		FROM users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE u.role = ?
		ORDER BY u.last_name, u.first_name`, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var list []StudentSummary
	for rows.Next() {
		var s StudentSummary
		if err := rows.Scan(&s.ID, &s.Email, &s.FirstName, &s.LastName, &s.City,
			&s.HasResume, &s.WorkCount, &s.EducationCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	TotalStudents    int64
	ResumesUploaded  int64
	WorkEntries      int64
	EducationEntries int64
}

// GetDashboardStats computes the admin dashboard counters in one round trip.
func (q *Queries) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var s DashboardStats
	err := q.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'student'),
			(SELECT COUNT(*) FROM profiles WHERE resume_path IS NOT NULL),
			(SELECT COUNT(*) FROM experiences WHERE type = 'work'),
			(SELECT COUNT(*) FROM experiences WHERE type = 'education')`).
		Scan(&s.TotalStudents, &s.ResumesUploaded, &s.WorkEntries, &s.EducationEntries)
	return s, err
}

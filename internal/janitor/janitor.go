// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package janitor runs periodic maintenance: sweeping résumé files no
// profile references and pruning old event log entries.
package janitor

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/cvdesk-go/internal/service"
)

// EventRetention is how long audit entries are kept before pruning.
const EventRetention = 90 * 24 * time.Hour

// Janitor handles scheduled maintenance tasks.
type Janitor struct {
	cron    *cron.Cron
	resumes *service.ResumeService
	events  *service.EventService
	logger  *slog.Logger
}

// New creates a new janitor instance.
func New(db *sql.DB, resumes *service.ResumeService, logger *slog.Logger) *Janitor {
	return &Janitor{
		cron:    cron.New(),
		resumes: resumes,
		events:  service.NewEventService(db),
		logger:  logger,
	}
}

// Start schedules the maintenance jobs: the orphan sweep hourly and the
// event log pruning daily.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("@hourly", j.sweepOrphans); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc("@daily", j.pruneEvents); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("janitor started", "jobs", len(j.cron.Entries()))
	return nil
}

// Stop gracefully stops the janitor, waiting for running jobs.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.logger.Info("janitor stopped")
}

// sweepOrphans removes résumé files left behind by interrupted replacements.
func (j *Janitor) sweepOrphans() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := j.resumes.RemoveOrphanedResumes(ctx)
	if err != nil {
		j.logger.Error("orphaned resume sweep failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("removed orphaned resumes", "count", removed)
	}
}

// pruneEvents drops audit entries older than the retention window.
func (j *Janitor) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := j.events.DeleteOldEvents(ctx, EventRetention)
	if err != nil {
		j.logger.Error("event log pruning failed", "error", err)
		return
	}
	if pruned > 0 {
		j.logger.Info("pruned old events", "count", pruned)
	}
}

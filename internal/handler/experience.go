// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/cvdesk-go/internal/middleware"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/render"
	"github.com/olegiv/cvdesk-go/internal/service"
)

// ExperienceHandler handles work and education entry routes.
type ExperienceHandler struct {
	experiences  *service.ExperienceService
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewExperienceHandler creates a new ExperienceHandler.
func NewExperienceHandler(db *sql.DB, renderer *render.Renderer) *ExperienceHandler {
	return &ExperienceHandler{
		experiences:  service.NewExperienceService(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// Add handles the new experience form submission.
func (h *ExperienceHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectDashboard) {
		return
	}

	params := service.AddParams{
		Type:         r.FormValue("type"),
		Title:        r.FormValue("title"),
		Organization: r.FormValue("organization"),
		StartDate:    r.FormValue("start_date"),
		EndDate:      r.FormValue("end_date"),
		IsOngoing:    r.FormValue("is_ongoing") != "",
		Description:  r.FormValue("description"),
	}

	exp, err := h.experiences.Add(r.Context(), user.ID, params)
	if err != nil {
		flashServiceError(w, r, h.renderer, redirectDashboard, err, "Error adding entry")
		return
	}

	slog.Info("experience added", "user_id", user.ID, "experience_id", exp.ID, "type", exp.Type)
	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryProfile, "Experience added", &user.ID, middleware.ClientIP(r), map[string]any{"type": exp.Type})

	flashSuccess(w, r, h.renderer, redirectDashboard, "Entry added")
}

// Delete removes one of the student's own entries.
func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, err := idParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectDashboard, "Invalid entry ID")
		return
	}

	if err := h.experiences.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectDashboard, "Entry not found")
			return
		}
		slog.Error("failed to delete experience", "error", err, "experience_id", id)
		flashError(w, r, h.renderer, redirectDashboard, "Error deleting entry")
		return
	}

	flashSuccess(w, r, h.renderer, redirectDashboard, "Entry removed")
}

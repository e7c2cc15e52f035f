// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/olegiv/cvdesk-go/internal/middleware"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/render"
	"github.com/olegiv/cvdesk-go/internal/service"
)

// ProfileHandler serves the student dashboard and profile updates.
type ProfileHandler struct {
	profiles     *service.ProfileService
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(db *sql.DB, renderer *render.Renderer) *ProfileHandler {
	return &ProfileHandler{
		profiles:     service.NewProfileService(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// Dashboard renders the student's CV dashboard: profile fields, experience
// entries and résumé state on one page.
func (h *ProfileHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	view, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil {
		logAndInternalError(w, "loading profile", "error", err, "user_id", user.ID)
		return
	}

	data := render.TemplateData{
		Title: "My CV",
		User:  user,
		Data:  view,
	}
	if err := h.renderer.Render(w, r, "student/dashboard", data); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

// Update handles the profile form submission.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectDashboard) {
		return
	}

	params := service.UpdateParams{
		FirstName:   r.FormValue("first_name"),
		LastName:    r.FormValue("last_name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		BirthDate:   r.FormValue("birth_date"),
		City:        r.FormValue("city"),
		Address:     r.FormValue("address"),
		Nationality: r.FormValue("nationality"),
		LinkedinURL: r.FormValue("linkedin_url"),
		Hobby:       r.FormValue("hobby"),
		Skills:      r.FormValue("skills"),
		Languages:   r.FormValue("languages"),
	}

	if err := h.profiles.Update(r.Context(), user.ID, params); err != nil {
		flashServiceError(w, r, h.renderer, redirectDashboard, err, "Error saving profile")
		return
	}

	slog.Info("profile updated", "user_id", user.ID)
	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryProfile, "Profile updated", &user.ID, middleware.ClientIP(r), nil)

	flashSuccess(w, r, h.renderer, redirectDashboard, "Profile saved")
}

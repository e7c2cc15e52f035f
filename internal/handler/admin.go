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
	"github.com/olegiv/cvdesk-go/internal/store"
)

// AdminHandler serves the read-only admin views over student CVs.
type AdminHandler struct {
	profiles     *service.ProfileService
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		profiles:     service.NewProfileService(db),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// DashboardData is the admin dashboard view model.
type DashboardData struct {
	Stats  store.DashboardStats
	Events []model.Event
}

// Dashboard renders the admin overview with aggregate counts and the
// latest audit events.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.profiles.DashboardStats(r.Context())
	if err != nil {
		logAndInternalError(w, "loading dashboard stats", "error", err)
		return
	}

	events, err := h.eventService.RecentEvents(r.Context(), 10)
	if err != nil {
		slog.Error("loading recent events", "error", err)
		// The dashboard still renders without the event feed
	}

	data := render.TemplateData{
		Title: "Admin Dashboard",
		User:  middleware.GetUser(r),
		Data:  DashboardData{Stats: stats, Events: events},
	}
	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "rendering admin dashboard", "error", err)
	}
}

// Students renders the student list.
func (h *AdminHandler) Students(w http.ResponseWriter, r *http.Request) {
	students, err := h.profiles.ListStudents(r.Context())
	if err != nil {
		logAndInternalError(w, "listing students", "error", err)
		return
	}

	data := render.TemplateData{
		Title: "Students",
		User:  middleware.GetUser(r),
		Data:  students,
	}
	if err := h.renderer.Render(w, r, "admin/students", data); err != nil {
		logAndInternalError(w, "rendering student list", "error", err)
	}
}

// Student renders a single student's full CV, read-only.
func (h *AdminHandler) Student(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminStudents, "Invalid student ID")
		return
	}

	view, err := h.profiles.GetStudent(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			flashError(w, r, h.renderer, redirectAdminStudents, "Student not found")
			return
		}
		logAndInternalError(w, "loading student", "error", err, "student_id", id)
		return
	}

	data := render.TemplateData{
		Title: view.User.FullName(),
		User:  middleware.GetUser(r),
		Data:  view,
	}
	if err := h.renderer.Render(w, r, "admin/student", data); err != nil {
		logAndInternalError(w, "rendering student detail", "error", err)
	}
}

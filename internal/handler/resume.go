// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/cvdesk-go/internal/middleware"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/render"
	"github.com/olegiv/cvdesk-go/internal/service"
)

// ResumeHandler handles résumé upload and download routes.
type ResumeHandler struct {
	resumes      *service.ResumeService
	renderer     *render.Renderer
	eventService *service.EventService
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(db *sql.DB, renderer *render.Renderer, uploadsDir string) *ResumeHandler {
	return &ResumeHandler{
		resumes:      service.NewResumeService(db, uploadsDir),
		renderer:     renderer,
		eventService: service.NewEventService(db),
	}
}

// Upload handles the résumé upload form. A new upload replaces the
// previous résumé.
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	// Cap the request body; the extra megabyte covers multipart framing
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxResumeSize+(1<<20))

	if err := r.ParseMultipartForm(service.MaxResumeSize); err != nil {
		flashError(w, r, h.renderer, redirectDashboard, "The file exceeds the 5 MB limit")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		flashError(w, r, h.renderer, redirectDashboard, "Please choose a PDF file to upload")
		return
	}
	defer func() { _ = file.Close() }()

	if err := h.resumes.Upload(r.Context(), user.ID, file, header); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFileType):
			flashError(w, r, h.renderer, redirectDashboard, "Only PDF files are accepted")
		case errors.Is(err, service.ErrFileTooLarge):
			flashError(w, r, h.renderer, redirectDashboard, "The file exceeds the 5 MB limit")
		default:
			slog.Error("resume upload failed", "error", err, "user_id", user.ID)
			flashError(w, r, h.renderer, redirectDashboard, "Error uploading résumé")
		}
		return
	}

	slog.Info("resume uploaded", "user_id", user.ID, "size", header.Size)
	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryResume, "Resume uploaded", &user.ID, middleware.ClientIP(r), map[string]any{"size": header.Size})

	flashSuccess(w, r, h.renderer, redirectDashboard, "Résumé uploaded")
}

// Download serves the student's own résumé.
func (h *ResumeHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	dl, err := h.resumes.Open(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoResume) {
			flashError(w, r, h.renderer, redirectDashboard, "No résumé on file")
			return
		}
		logAndInternalError(w, "opening resume", "error", err, "user_id", user.ID)
		return
	}
	defer func() { _ = dl.Close() }()

	serveResume(w, dl)
}

// DownloadStudent serves a student's résumé to an admin.
func (h *ResumeHandler) DownloadStudent(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminStudents, "Invalid student ID")
		return
	}

	dl, err := h.resumes.OpenStudent(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			flashError(w, r, h.renderer, redirectAdminStudents, "Student not found")
		case errors.Is(err, service.ErrNoResume):
			flashError(w, r, h.renderer, redirectAdminStudents, "This student has no résumé on file")
		default:
			logAndInternalError(w, "opening student resume", "error", err, "student_id", id)
		}
		return
	}
	defer func() { _ = dl.Close() }()

	serveResume(w, dl)
}

// serveResume writes an open résumé as an attachment download.
func serveResume(w http.ResponseWriter, dl *service.Download) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dl.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(dl.Size, 10))
	w.Header().Set("Cache-Control", "private, no-cache")
	if _, err := io.Copy(w, dl.File); err != nil {
		slog.Error("streaming resume", "error", err)
	}
}

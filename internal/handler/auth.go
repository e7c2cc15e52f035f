// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/cvdesk-go/internal/middleware"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/render"
	"github.com/olegiv/cvdesk-go/internal/service"
	"github.com/olegiv/cvdesk-go/internal/store"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	queries         *store.Queries
	accounts        *service.AccountService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		accounts:        service.NewAccountService(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Already-authenticated users are sent
// to their home: admins to the admin dashboard, students to theirs.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{Title: "Sign In"}); err != nil {
		logAndInternalError(w, "rendering login page", "error", err)
	}
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, "Email and password are required")
		return
	}

	clientIP := middleware.ClientIP(r)

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, clientIP, map[string]any{"email": email})
		flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(remaining)))
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			slog.Error("database error during login", "error", err)
		}
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed", nil, clientIP, map[string]any{"email": email})

		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", nil, clientIP, map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining <= 3 && remaining > 0 {
			flashError(w, r, h.renderer, redirectLogin, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
		flashError(w, r, h.renderer, redirectLogin, "Invalid email or password")
		return
	}

	h.loginProtection.RecordSuccessfulLogin(email)

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", &user.ID, clientIP, map[string]any{"email": user.Email})

	h.renderer.SetFlash(r, "Welcome back, "+user.FirstName, "success")
	http.Redirect(w, r, homeFor(user.Role), http.StatusSeeOther)
}

// RegisterForm renders the account registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.redirectAuthenticated(w, r) {
		return
	}

	if err := h.renderer.Render(w, r, "auth/register", render.TemplateData{Title: "Create Account"}); err != nil {
		logAndInternalError(w, "rendering registration page", "error", err)
	}
}

// Register handles the registration form submission. Validation failures
// re-render the form with all messages and the submitted values preserved.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectRegister) {
		return
	}

	params := service.RegisterParams{
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}

	user, err := h.accounts.Register(r.Context(), params)
	if err != nil {
		var messages []string
		if verr, ok := service.AsValidationError(err); ok {
			messages = verr.Messages
		} else if errors.Is(err, service.ErrDuplicateEmail) {
			messages = []string{"An account with this email address already exists"}
		} else {
			logAndInternalError(w, "registration error", "error", err)
			return
		}

		data := render.TemplateData{
			Title:  "Create Account",
			Errors: messages,
			Form: map[string]string{
				"first_name": params.FirstName,
				"last_name":  params.LastName,
				"email":      params.Email,
			},
		}
		if err := h.renderer.Render(w, r, "auth/register", data); err != nil {
			logAndInternalError(w, "rendering registration page", "error", err)
		}
		return
	}

	clientIP := middleware.ClientIP(r)
	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryUser, "User registered", &user.ID, clientIP, map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectLogin, "Account created. Please sign in.")
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	// Log the event before destroying the session
	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", &userID, middleware.ClientIP(r), nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, redirectLogin, "You have been signed out", "info")
}

// redirectAuthenticated sends signed-in users to their home page. Returns
// true if a redirect was written.
func (h *AuthHandler) redirectAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID == 0 {
		return false
	}
	user, err := h.queries.GetUserByID(r.Context(), userID)
	if err != nil {
		return false
	}
	http.Redirect(w, r, homeFor(user.Role), http.StatusSeeOther)
	return true
}

// homeFor returns the landing page for a role.
func homeFor(role string) string {
	if role == model.RoleAdmin {
		return redirectAdmin
	}
	return redirectDashboard
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

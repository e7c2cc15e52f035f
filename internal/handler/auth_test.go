package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/cvdesk-go/internal/middleware"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/store"
	"github.com/olegiv/cvdesk-go/internal/testutil"
)

func newAuthHandler(e *testEnv) *AuthHandler {
	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	return NewAuthHandler(e.db, e.renderer, e.sm, lp)
}

func postForm(t *testing.T, e *testEnv, path string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = e.withSession(t, req)
	return req, httptest.NewRecorder()
}

func TestLoginForm(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)

	req := e.withSession(t, httptest.NewRequest(http.MethodGet, RouteLogin, nil))
	rec := httptest.NewRecorder()
	h.LoginForm(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Sign In") {
		t.Error("login page should contain the sign-in form")
	}
}

func TestLogin_Success(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	testutil.CreateUser(t, e.db, "student@example.com", "Passw0rd", model.RoleStudent)

	req, rec := postForm(t, e, RouteLogin, url.Values{
		"email":    {"student@example.com"},
		"password": {"Passw0rd"},
	})
	h.Login(rec, req)

	assertRedirect(t, rec.Code, rec.Header().Get("Location"), RouteDashboard)
	if e.sm.GetInt64(req.Context(), middleware.SessionKeyUserID) == 0 {
		t.Error("session should hold the user ID after login")
	}
}

func TestLogin_AdminRedirect(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	testutil.CreateUser(t, e.db, "admin@example.com", "Passw0rd", model.RoleAdmin)

	req, rec := postForm(t, e, RouteLogin, url.Values{
		"email":    {"admin@example.com"},
		"password": {"Passw0rd"},
	})
	h.Login(rec, req)

	assertRedirect(t, rec.Code, rec.Header().Get("Location"), RouteAdmin)
}

func TestLogin_InvalidPassword(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	testutil.CreateUser(t, e.db, "student@example.com", "Passw0rd", model.RoleStudent)

	req, rec := postForm(t, e, RouteLogin, url.Values{
		"email":    {"student@example.com"},
		"password": {"wrong-password"},
	})
	h.Login(rec, req)

	assertRedirect(t, rec.Code, rec.Header().Get("Location"), RouteLogin)
	if e.sm.GetInt64(req.Context(), middleware.SessionKeyUserID) != 0 {
		t.Error("failed login must not establish a session")
	}
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)

	req, rec := postForm(t, e, RouteRegister, url.Values{
		"first_name":       {"Anna"},
		"last_name":        {"Lindberg"},
		"email":            {"anna@example.com"},
		"password":         {"Passw0rd"},
		"password_confirm": {"Passw0rd"},
	})
	h.Register(rec, req)

	assertRedirect(t, rec.Code, rec.Header().Get("Location"), RouteLogin)

	user, err := store.New(e.db).GetUserByEmail(req.Context(), "anna@example.com")
	if err != nil {
		t.Fatalf("registered user not found: %v", err)
	}
	if user.Role != model.RoleStudent {
		t.Errorf("Role = %q, want student", user.Role)
	}
}

func TestRegister_ValidationRerendersForm(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)

	req, rec := postForm(t, e, RouteRegister, url.Values{
		"first_name":       {""},
		"last_name":        {"Lindberg"},
		"email":            {"anna@example.com"},
		"password":         {"Passw0rd"},
		"password_confirm": {"different"},
	})
	h.Register(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "First name is required") {
		t.Error("validation message should be rendered")
	}
	if !strings.Contains(body, "anna@example.com") {
		t.Error("submitted email should be preserved in the form")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	testutil.CreateUser(t, e.db, "anna@example.com", "Passw0rd", model.RoleStudent)

	req, rec := postForm(t, e, RouteRegister, url.Values{
		"first_name":       {"Anna"},
		"last_name":        {"Lindberg"},
		"email":            {"Anna@Example.COM"},
		"password":         {"Passw0rd"},
		"password_confirm": {"Passw0rd"},
	})
	h.Register(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Error("duplicate email should re-render the form with an error")
	}
}

func TestLogout(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	user := testutil.CreateUser(t, e.db, "student@example.com", "Passw0rd", model.RoleStudent)

	req := e.withSession(t, httptest.NewRequest(http.MethodPost, RouteLogout, nil))
	e.sm.Put(req.Context(), middleware.SessionKeyUserID, user.ID)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assertRedirect(t, rec.Code, rec.Header().Get("Location"), RouteLogin)
}

func TestLoginForm_RedirectsAuthenticated(t *testing.T) {
	e := newTestEnv(t)
	h := newAuthHandler(e)
	user := testutil.CreateUser(t, e.db, "student@example.com", "Passw0rd", model.RoleStudent)

	req := e.withSession(t, httptest.NewRequest(http.MethodGet, RouteLogin, nil))
	e.sm.Put(req.Context(), middleware.SessionKeyUserID, user.ID)
	rec := httptest.NewRecorder()
	h.LoginForm(rec, req)

	assertRedirect(t, rec.Code, rec.Header().Get("Location"), RouteDashboard)
}

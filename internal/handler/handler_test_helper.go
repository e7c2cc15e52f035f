package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/cvdesk-go/internal/middleware"
	"github.com/olegiv/cvdesk-go/internal/model"
	"github.com/olegiv/cvdesk-go/internal/render"
	"github.com/olegiv/cvdesk-go/internal/testutil"
	"github.com/olegiv/cvdesk-go/web"
)

// testEnv bundles the pieces most handler tests need.
type testEnv struct {
	db       *sql.DB
	sm       *scs.SessionManager
	renderer *render.Renderer
}

// newTestEnv creates a test database, an in-memory session manager and a
// renderer over the real embedded templates.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	sm := scs.New()
	sm.Lifetime = 24 * time.Hour

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates sub FS: %v", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("creating renderer: %v", err)
	}

	return &testEnv{db: db, sm: sm, renderer: renderer}
}

// withSession loads a fresh session context onto the request.
func (e *testEnv) withSession(t *testing.T, r *http.Request) *http.Request {
	t.Helper()

	ctx, err := e.sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return r.WithContext(ctx)
}

// withUser attaches an authenticated user to the request context the way
// the LoadUser middleware does.
func withUser(r *http.Request, user *model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, *user))
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a 303 redirect to the expected location.
func assertRedirect(t *testing.T, got int, location, want string) {
	t.Helper()
	if got != http.StatusSeeOther {
		t.Errorf("status = %d; want %d", got, http.StatusSeeOther)
	}
	if location != want {
		t.Errorf("Location = %q; want %q", location, want)
	}
}

// popFlash returns the flash message stored on the request's session.
func (e *testEnv) popFlash(r *http.Request) string {
	return e.sm.PopString(r.Context(), "flash")
}

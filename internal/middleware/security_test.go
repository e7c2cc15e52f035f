package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(t *testing.T, cfg SecurityHeadersConfig) http.Header {
	t.Helper()

	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Header()
}

func TestSecurityHeaders_Defaults(t *testing.T) {
	h := serveWithHeaders(t, DefaultSecurityHeadersConfig(true))

	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", h.Get("X-Frame-Options"))
	}
	csp := h.Get("Content-Security-Policy")
	if !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP missing default-src: %q", csp)
	}
	if !strings.Contains(csp, "form-action 'self'") {
		t.Errorf("CSP missing form-action: %q", csp)
	}
}

func TestSecurityHeaders_HSTSOnlyInProduction(t *testing.T) {
	dev := serveWithHeaders(t, DefaultSecurityHeadersConfig(true))
	if dev.Get("Strict-Transport-Security") != "" {
		t.Error("HSTS should be absent in development")
	}

	prod := serveWithHeaders(t, DefaultSecurityHeadersConfig(false))
	hsts := prod.Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=31536000") {
		t.Errorf("HSTS = %q, want max-age=31536000", hsts)
	}
	if !strings.Contains(hsts, "includeSubDomains") {
		t.Errorf("HSTS = %q, want includeSubDomains", hsts)
	}
}

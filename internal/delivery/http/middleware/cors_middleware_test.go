package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(m *CORSMiddleware, method, origin string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	req := httptest.NewRequest(method, "/v1/pilotstudies", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	m.Handle(next).ServeHTTP(rec, req)
	return rec
}

func TestCORSAnyOrigin(t *testing.T) {
	m := NewCORSMiddleware([]string{"*"})

	rec := serveCORS(m, http.MethodGet, "https://app.example.com")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Total-Count", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestCORSAllowList(t *testing.T) {
	m := NewCORSMiddleware([]string{"https://app.example.com"})

	rec := serveCORS(m, http.MethodGet, "https://app.example.com")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	rec = serveCORS(m, http.MethodGet, "https://evil.example.com")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serveCORS(m, http.MethodGet, "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	m := NewCORSMiddleware(nil)

	rec := serveCORS(m, http.MethodOptions, "https://app.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/samber/lo"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = "Content-Type, Authorization"
)

type CORSMiddleware struct {
	origins   []string
	anyOrigin bool
}

// NewCORSMiddleware allows the listed origins. An empty list or "*" allows any origin.
func NewCORSMiddleware(origins []string) *CORSMiddleware {
	return &CORSMiddleware{
		origins:   origins,
		anyOrigin: len(origins) == 0 || lo.Contains(origins, "*"),
	}
}

func (m *CORSMiddleware) allowed(origin string) bool {
	return m.anyOrigin || lo.Contains(m.origins, origin)
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			h := w.Header()
			if m.anyOrigin {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
			// List endpoints report the total through this header
			h.Set("Access-Control-Expose-Headers", "X-Total-Count")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

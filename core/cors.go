package core

import (
	"net/http"
	"strings"
)

// CORSPolicy is a fixed cross-origin policy for a single origin.
type CORSPolicy struct {
	AllowedOrigin    string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

func DefaultCORSPolicy(origin string) CORSPolicy {
	return CORSPolicy{
		AllowedOrigin:    origin,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Accept", "Content-Type"},
		AllowCredentials: true,
	}
}

func (p CORSPolicy) allows(origin string) bool {
	return origin != "" && origin == p.AllowedOrigin
}

// Handler applies the policy ahead of next. OPTIONS requests are answered
// here with 204 and never reach next. A foreign origin only loses the
// permissive headers; the request itself is still served.
func (p CORSPolicy) Handler(next http.Handler) http.Handler {
	methods := strings.Join(p.AllowedMethods, ", ")
	headers := strings.Join(p.AllowedHeaders, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")

		origin := r.Header.Get("Origin")
		allowed := p.allows(origin)
		if allowed {
			h.Set("Access-Control-Allow-Origin", origin)
			if p.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if allowed {
			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

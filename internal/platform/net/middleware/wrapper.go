// Package middleware adapts chi middleware and holds the in house ones, callers never see chi types
package middleware

import (
	"net/http"
	"time"

	pstrings "secretsanta/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID propagates X-Request-ID or mints one and stores it on the context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Real-IP or X-Forwarded-For
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// Timeout cancels the request context after d and answers 504 if nothing was written
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// NoCache marks every response as uncacheable, result pages must not linger in proxies
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress gzips or deflates responses at level
func Compress(level int) func(http.Handler) http.Handler { return chimw.Compress(level) }

// StripSlashes drops a trailing slash before routing
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before any other middleware runs
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Throttle caps requests in flight, the rest wait up to wait and then get 429
func Throttle(limit int, wait time.Duration) func(http.Handler) http.Handler {
	return chimw.ThrottleBacklog(limit, limit*4, wait)
}

// CORSOptions is the part of go-chi/cors the api configures
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS wraps go-chi/cors, empty lists take the api defaults
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}),
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}

package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"secretsanta/internal/platform/config"
	phttp "secretsanta/internal/platform/net/http"
	"secretsanta/internal/platform/net/middleware"
)

// CommonStack is the middleware every api route runs behind
// it reads CORS_ORIGINS, REQUEST_TIMEOUT and SLOW_REQUEST from cfg
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(cfg.MayDuration("SLOW_REQUEST", time.Second)),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         300,
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second)),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}

// Throttle caps requests in flight for the routes it wraps
func Throttle(limit int, wait time.Duration) func(http.Handler) http.Handler {
	return middleware.Throttle(limit, wait)
}

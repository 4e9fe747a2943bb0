package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/logger"
	pnet "secretsanta/internal/platform/net"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack
// http.ErrAbortHandler is re-panicked so net/http can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(pnet.Failure(perr.PanicErrf("internal error"), reqID))
		}()
		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"net/http"

	pnet "secretsanta/internal/platform/net"
)

// AuthPort turns a request into the bearer credential it carries
type AuthPort interface {
	Parse(r *http.Request) (bearer string, err error)
}

// Auth rejects requests the port refuses and stores the accepted bearer on the context
// a nil port lets everything through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			bearer, err := p.Parse(r)
			if err != nil {
				body := pnet.Failure(err, pnet.RequestID(r.Context()))
				write(w, body.StatusCode, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithBearer(r.Context(), bearer)))
		})
	}
}

package httpkit

import (
	"net/http"
	"strings"

	perrs "secretsanta/internal/platform/errors"
)

// TokenFunc checks the raw bearer value and returns what handlers will see through Bearer
type TokenFunc func(token string) (string, error)

// Port implements middleware.AuthPort over the Authorization header
type Port struct{ parse TokenFunc }

// NewPortFunc builds a Port from a TokenFunc
func NewPortFunc(fn TokenFunc) *Port { return &Port{parse: fn} }

// Parse reads "Bearer <token>", the scheme is case insensitive
// every failure is Unauthorized, the TokenFunc's own error is not echoed
func (p *Port) Parse(r *http.Request) (string, error) {
	scheme, raw, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	raw = strings.TrimSpace(raw)
	if !strings.EqualFold(scheme, "bearer") || raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	if p.parse == nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	v, err := p.parse(raw)
	if err != nil {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return v, nil
}

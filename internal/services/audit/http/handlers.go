// Package http provides http transport for audit
package http

import (
	stdhttp "net/http"
	"strconv"

	"secretsanta/internal/modkit/httpkit"
	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/services/audit/domain"
	svc "secretsanta/internal/services/audit/service"
)

// Register mounts audit endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/summary", h.summary)
}

type handlers struct{ svc svc.Service }

func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	var in domain.SummaryInput
	if raw := httpkit.Query(r, "days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			return nil, perr.WithField(perr.Validationf("days must be between 1 and 365"), "days")
		}
		in.Days = n
	}
	return h.svc.Summary(r.Context(), in)
}

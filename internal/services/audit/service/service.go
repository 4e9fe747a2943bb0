// Package service contains draw audit workflows
package service

import (
	"context"
	"time"

	perr "secretsanta/internal/platform/errors"
	"secretsanta/internal/platform/logger"
	"secretsanta/internal/services/audit/domain"
	"secretsanta/internal/services/audit/repo"
)

// DefaultDays is the summary window when none is given
const DefaultDays = 30

// Service defines the service contract for audit
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
// a nil Repo turns every call into a no-op
type Svc struct {
	Repo repo.Repo
	now  func() time.Time
}

// New creates a new audit service, r may be nil when clickhouse is disabled
func New(r repo.Repo) *Svc {
	return &Svc{Repo: r, now: time.Now}
}

// Enabled reports whether events are persisted
func (s *Svc) Enabled() bool { return s != nil && s.Repo != nil }

// RecordDraw persists ev, failures are logged and returned for callers that care
func (s *Svc) RecordDraw(ctx context.Context, ev domain.DrawEvent) error {
	if !s.Enabled() {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = s.now()
	}
	if err := s.Repo.Insert(ctx, ev); err != nil {
		logger.C(ctx).Warn().Err(err).Str("drawing_id", ev.DrawingID).Str("outcome", ev.Outcome).Msg("audit insert failed")
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "audit insert failed")
	}
	return nil
}

// Summary returns per outcome counts for the trailing window
func (s *Svc) Summary(ctx context.Context, in domain.SummaryInput) (domain.Summary, error) {
	days := in.Days
	if days <= 0 {
		days = DefaultDays
	}
	out := domain.Summary{Enabled: s.Enabled(), Days: days, Outcomes: []domain.OutcomeCount{}}
	if !s.Enabled() {
		return out, nil
	}
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	rows, err := s.Repo.Summary(ctx, since)
	if err != nil {
		return domain.Summary{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "audit summary failed")
	}
	if rows != nil {
		out.Outcomes = rows
	}
	return out, nil
}

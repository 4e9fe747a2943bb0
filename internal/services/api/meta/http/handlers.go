// Package http serves liveness, readiness and build metadata
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sourcegraph/conc/iter"

	"secretsanta/internal/core/matcher"
	"secretsanta/internal/core/version"
	"secretsanta/internal/modkit/httpkit"
)

// Pinger is satisfied by store seams that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

// Check names a backend for /ready, a nil Target is reported as skipped
type Check struct {
	Name   string
	Target any
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Checks      []Check
	// PingTimeout bounds every readiness ping, 2s when zero
	PingTimeout time.Duration
	Matcher     MatcherResponse
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck is the outcome of one backend ping: ok, fail, skipped or unknown
type ReadyCheck struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

// ReadyResponse is ok, degraded when a backend cannot be pinged, fail when one is down
type ReadyResponse struct {
	Status string       `json:"status"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// MatcherResponse reports the draw settings in effect
type MatcherResponse struct {
	MaxAttempts int               `json:"max_attempts"`
	Fallback    bool              `json:"fallback"`
	Strategies  []string          `json:"strategies"`
	Build       version.BuildInfo `json:"build"`
}

// MatcherDefaults describes a matcher built with no options
func MatcherDefaults() MatcherResponse {
	m := matcher.New()
	return MatcherResponse{MaxAttempts: m.MaxAttempts(), Fallback: m.Fallback()}
}

type handlers struct{ deps Deps }

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.PingTimeout <= 0 {
		d.PingTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/matcher", h.matcherInfo)
}

func rfc3339(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: rfc3339(h.deps.StartedAt),
		Now:     rfc3339(time.Now()),
	}, nil
}

func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.PingTimeout)
	defer cancel()

	checks := iter.Map(h.deps.Checks, func(c *Check) ReadyCheck {
		return probe(ctx, *c)
	})

	out := ReadyResponse{Status: "ok", Checks: checks, Now: rfc3339(time.Now())}
	for _, c := range checks {
		switch {
		case c.Status == "fail":
			out.Status = "fail"
		case c.Status == "unknown" && out.Status == "ok":
			out.Status = "degraded"
		}
	}
	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func probe(ctx context.Context, c Check) ReadyCheck {
	if c.Target == nil {
		return ReadyCheck{Name: c.Name, Status: "skipped"}
	}
	p, ok := c.Target.(Pinger)
	if !ok {
		return ReadyCheck{Name: c.Name, Status: "unknown"}
	}
	start := time.Now()
	err := p.Ping(ctx)
	rc := ReadyCheck{Name: c.Name, Status: "ok", ElapsedMs: time.Since(start).Milliseconds()}
	if err != nil {
		rc.Status, rc.Error = "fail", err.Error()
	}
	return rc
}

func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: rfc3339(h.deps.StartedAt),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

func (h *handlers) matcherInfo(*http.Request) (any, error) {
	out := h.deps.Matcher
	if out.MaxAttempts <= 0 {
		out = MatcherDefaults()
	}
	out.Strategies = []string{string(matcher.StrategyShuffle)}
	if out.Fallback {
		out.Strategies = append(out.Strategies, string(matcher.StrategySearch))
	}
	out.Build = version.Info()
	return out, nil
}

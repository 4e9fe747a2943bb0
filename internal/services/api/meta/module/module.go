// Package module mounts health, version and matcher settings under /meta
package module

import (
	"time"

	modkit "secretsanta/internal/modkit"
	"secretsanta/internal/modkit/httpkit"
	"secretsanta/internal/platform/config"
	str "secretsanta/internal/platform/strings"

	metahttp "secretsanta/internal/services/api/meta/http"
)

// Module serves process metadata
type Module struct {
	built modkit.Built
	deps  metahttp.Deps
}

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{built: b, deps: metahttp.Deps{
		ServiceName: "santa-api",
		StartedAt:   time.Now(),
		Checks:      checks(deps),
		PingTimeout: deps.Cfg.MayDuration("READY_TIMEOUT", 2*time.Second),
		Matcher:     matcherFrom(deps.Cfg),
	}}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

// Ports implements the modkit.Module interface, meta offers none
func (m *Module) Ports() any { return nil }

// matcherFrom mirrors the draw settings the drawings module reads
func matcherFrom(c config.Conf) metahttp.MatcherResponse {
	d := metahttp.MatcherDefaults()
	return metahttp.MatcherResponse{
		MaxAttempts: c.MayInt("DRAW_MAX_ATTEMPTS", d.MaxAttempts),
		Fallback:    c.MayBool("DRAW_FALLBACK", d.Fallback),
	}
}

// checks keeps disabled stores as untyped nil so they report skipped
func checks(deps modkit.Deps) []metahttp.Check {
	out := []metahttp.Check{{Name: "pg"}, {Name: "ch"}, {Name: "redis"}}
	if deps.PG != nil {
		out[0].Target = deps.PG
	}
	if deps.CH != nil {
		out[1].Target = deps.CH
	}
	if deps.RDS != nil {
		out[2].Target = deps.RDS
	}
	return out
}

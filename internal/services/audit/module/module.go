// Package module wires draw auditing into the API using modkit
package module

import (
	modkit "secretsanta/internal/modkit"
	"secretsanta/internal/modkit/httpkit"
	str "secretsanta/internal/platform/strings"
	audithttp "secretsanta/internal/services/audit/http"
	auditrepo "secretsanta/internal/services/audit/repo"
	auditsvc "secretsanta/internal/services/audit/service"
)

// Module records draw outcomes and serves their stats
type Module struct {
	built modkit.Built
	svc   *auditsvc.Svc
}

// New constructs the audit module, events are dropped when deps.CH is nil
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("audit"), modkit.WithPrefix("/audit")}, opts...)...)

	var r auditrepo.Repo
	if deps.CH != nil {
		r = auditrepo.NewCH(deps.CH)
	}
	svc := auditsvc.New(r)

	return &Module{built: b, svc: svc}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { audithttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

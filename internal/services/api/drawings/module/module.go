// Package module wires drawings into the API using modkit
package module

import (
	modkit "secretsanta/internal/modkit"
	"secretsanta/internal/modkit/httpkit"
	"secretsanta/internal/modkit/repokit"
	"secretsanta/internal/platform/lease"
	"secretsanta/internal/platform/logger"
	str "secretsanta/internal/platform/strings"
	dhttp "secretsanta/internal/services/api/drawings/http"
	drepo "secretsanta/internal/services/api/drawings/repo"
	dsvc "secretsanta/internal/services/api/drawings/service"
	"secretsanta/internal/services/notify"
)

// Module serves drawings, participants, constraints, draws and results
type Module struct {
	built modkit.Built
	ports Ports
	svc   dsvc.Service
}

// New constructs the drawings module
// drawings live in memory when deps.PG is nil, draw locks too when deps.RDS is nil
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("drawings"),
		modkit.WithPrefix("/drawings"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	var (
		db     repokit.TxRunner
		binder repokit.Binder[drepo.Repo]
	)
	if deps.PG != nil {
		db, binder = repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(cfg.StatementTimeout)), drepo.NewPG()
	} else {
		logger.Named("drawings").Warn().Msg("postgres disabled, drawings are kept in memory")
		db, binder = repokit.Nop{}, drepo.NewMemory()
	}

	svc := dsvc.New(db, binder,
		dsvc.WithConfig(cfg.Service),
		dsvc.WithLocker(lease.New(deps.RDS, cfg.LockPrefix)),
		dsvc.WithRecorder(injected.Recorder),
		dsvc.WithNotifier(notify.New(notify.NewLogSender(), cfg.NotifyConcurrency)),
	)

	return &Module{built: b, ports: injected, svc: svc}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { dhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.built.Prefix) }

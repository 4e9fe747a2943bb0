// Package api composes the modules into the versioned HTTP API
package api

import (
	"net/http"
	"time"

	"secretsanta/internal/platform/config"
	"secretsanta/internal/platform/logger"
	phttp "secretsanta/internal/platform/net/http"
	"secretsanta/internal/platform/store"

	"secretsanta/internal/modkit"
	"secretsanta/internal/modkit/httpkit"
	"secretsanta/internal/modkit/module"
	"secretsanta/internal/modkit/swaggerkit"

	drawingsmod "secretsanta/internal/services/api/drawings/module"
	metamod "secretsanta/internal/services/api/meta/module"
	auditmod "secretsanta/internal/services/audit/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount builds every module and mounts them under /api/v1
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
		deps.RDS = opt.Store.RDS
	}

	// audit owns the Recorder the drawings module reports draws to
	audit := auditmod.New(deps)
	rec := module.MustPortsOf[auditmod.Ports](audit).Recorder

	drawings := drawingsmod.New(
		deps,
		modkit.WithPorts(drawingsmod.Ports{Recorder: rec}),
		modkit.WithMiddlewares(httpkit.Throttle(
			opt.Config.MayInt("MAX_INFLIGHT", 64),
			opt.Config.MayDuration("INFLIGHT_WAIT", 5*time.Second),
		)),
	)

	var mods []module.Module
	meta := metamod.New(deps, modkit.WithRegister(func(r httpkit.Router) {
		httpkit.Get(r, "/modules", func(*http.Request) (any, error) { return mounted(mods), nil })
	}))
	mods = append(mods, meta, audit, drawings)

	swaggerkit.Mount(r, opt.EnableSwagger, "/api/v1")
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	log := logger.Named("api")
	httpkit.MountAPI(r, "v1", httpkit.CommonStack(opt.Config), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Str("prefix", "/api/v1"+m.Prefix()).Msg("module mounted")
		}
	})
}

// MountedModule is one entry of GET /meta/modules
type MountedModule struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

func mounted(mods []module.Module) []MountedModule {
	out := make([]MountedModule, 0, len(mods))
	for _, m := range mods {
		out = append(out, MountedModule{Name: m.Name(), Prefix: "/api/v1" + m.Prefix()})
	}
	return out
}

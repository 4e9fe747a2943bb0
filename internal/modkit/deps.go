package modkit

import (
	"secretsanta/internal/modkit/repokit"
	"secretsanta/internal/platform/config"
	"secretsanta/internal/platform/store"
)

// Deps are the shared handles main passes to every module
// a nil store means that backend is disabled and the module picks its fallback
type Deps struct {
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS store.Redis
}

package module

import (
	"time"

	"secretsanta/internal/platform/config"
	"secretsanta/internal/services/api/drawings/service"
	"secretsanta/internal/services/notify"
)

// Options controls draws, links and notification fan out
type Options struct {
	Service service.Config

	// NotifyConcurrency bounds parallel sends per notify call
	NotifyConcurrency int

	// LockPrefix namespaces draw locks in redis
	LockPrefix string

	// StatementTimeout caps each postgres statement inside a drawings transaction
	StatementTimeout time.Duration
}

// FromConfig reads draw and notify values from the api config (CORE_API_*)
func FromConfig(c config.Conf) Options {
	return Options{
		Service:           service.ConfigFrom(c),
		NotifyConcurrency: c.MayInt("NOTIFY_CONCURRENCY", notify.DefaultConcurrency),
		LockPrefix:        c.MayString("LOCK_PREFIX", "santa:"),
		StatementTimeout:  c.MayDuration("PG_STATEMENT_TIMEOUT", 5*time.Second),
	}
}

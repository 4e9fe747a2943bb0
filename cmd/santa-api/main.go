// Command santa-api serves the secret santa HTTP API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"secretsanta/internal/modkit/repokit"
	"secretsanta/internal/platform/config"
	"secretsanta/internal/platform/logger"
	phttp "secretsanta/internal/platform/net/http"
	"secretsanta/internal/platform/store"

	"secretsanta/internal/services/api"
	drawingsrepo "secretsanta/internal/services/api/drawings/repo"
	auditrepo "secretsanta/internal/services/audit/repo"
)

func main() {
	// a missing .env is fine, real env wins
	_ = godotenv.Load()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// store configs live under SERVICE_*
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	// bring up logging early
	l := logger.Get()

	pgURL := pgCfg.MayString("DBURL", "")
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "santa-api",
			PG: store.PGConfig{
				Enabled:     pgURL != "",
				URL:         pgURL,
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{
				Enabled:    chCfg.MayBool("ENABLED", false),
				URL:        chCfg.MayString("DBURL", ""),
				ClientName: "secretsanta",
				ClientTag:  "api",
			},
			RDS: store.RedisConfig{
				Enabled:  rdsCfg.MayBool("ENABLED", false),
				Addr:     rdsCfg.MayString("ADDR", "localhost:6379"),
				DB:       rdsCfg.MayInt("DB", 0),
				Password: rdsCfg.MayString("PASSWORD", ""),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(context.Background(), st)

	if apiCfg.MayBool("MIGRATE", false) {
		migrate(st, l)
	}

	// http server listens on CORE_API_PORT
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().Str("addr", srv.Addr()).Msg("santa-api listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// migrate applies the embedded drawings schema and the audit table
func migrate(st *store.Store, l *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if st.PG != nil {
		if err := drawingsrepo.Migrate(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("drawings schema failed")
		}
		l.Info().Msg("drawings schema applied")
	}
	if st.CH != nil {
		if err := auditrepo.NewCH(st.CH).EnsureSchema(ctx); err != nil {
			l.Panic().Err(err).Msg("audit schema failed")
		}
		l.Info().Msg("audit schema applied")
	}
}

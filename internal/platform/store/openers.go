package store

import (
	"context"
	"fmt"
	"time"

	chx "secretsanta/internal/platform/store/ch"
	"secretsanta/internal/platform/store/pg"
	"secretsanta/internal/platform/store/rds"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// openPG opens the pool and publishes the sql adapter once a ping succeeds
// pings retry with exponential backoff so the api can start before postgres does
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	opts := []pg.Option{pg.WithPoolConfig(func(c *pgxpool.Config) {
		c.ConnConfig.ConnectTimeout = pingTimeout
	})}
	if cfg.PG.LogSQL {
		opts = append(opts, pg.WithTracer(pg.Tracer(s.Log)))
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, opts...)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 150 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	ping := func() error {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return p.Pool.Ping(toCtx)
	}
	notify := func(err error, wait time.Duration) {
		s.Log.Warn().Err(err).Dur("retry_in", wait).Msg("postgres not ready")
	}
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		p.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
	}

	a := newPGAdapter(p)
	s.PG = a
	return a, nil
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	name := cfg.CH.ClientName
	if name == "" {
		name = cfg.AppName
	}
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientName: name,
		ClientTag:  cfg.CH.ClientTag,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("client", name).Str("role", cfg.CH.ClientTag).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}

func openRDS(ctx context.Context, cfg Config, s *Store) (Redis, error) {
	c, err := rds.Open(ctx, rds.Config{
		Addr:     cfg.RDS.Addr,
		DB:       cfg.RDS.DB,
		Password: cfg.RDS.Password,
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("addr", cfg.RDS.Addr).Int("db", cfg.RDS.DB).Msg("redis connected")
	return c, nil
}

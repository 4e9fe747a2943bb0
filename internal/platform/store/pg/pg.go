// Package pg opens the pgx pool behind the store sql seam
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL         string
	AppName     string
	MaxConns    int32
	MaxConnIdle time.Duration
	// SlowMs marks queries at or above it as slow, negative disables
	SlowMs int
}

// PG holds the pool and the tracer every adapter reports to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

// Option adjusts Open
type Option func(*opener)

type opener struct {
	tracer QueryTracer
	mut    func(*pgxpool.Config)
}

// WithTracer reports every statement to t
func WithTracer(t QueryTracer) Option { return func(o *opener) { o.tracer = t } }

// WithPoolConfig lets callers adjust the parsed pool config before connecting
func WithPoolConfig(fn func(*pgxpool.Config)) Option { return func(o *opener) { o.mut = fn } }

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL and builds the pool, it does not wait for the server
func Open(ctx context.Context, cfg Config, opts ...Option) (*PG, error) {
	var o opener
	for _, fn := range opts {
		fn(&o)
	}

	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnIdle > 0 {
		pcfg.MaxConnIdleTime = cfg.MaxConnIdle
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if o.mut != nil {
		o.mut(pcfg)
	}

	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: o.tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}

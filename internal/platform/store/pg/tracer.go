package pg

import (
	"context"
	"strings"

	"secretsanta/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the adapters run
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements through log at debug, slow ones at warn and failures at error
// argument values are never logged, they carry participant names and phones
func Tracer(log logger.Logger) QueryTracer {
	return &zlTracer{log: log.With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	var evt *zerolog.Event
	switch {
	case ev.Err != nil:
		evt = z.log.Error().Err(ev.Err)
	case ev.Slow:
		evt = z.log.Warn()
	default:
		evt = z.log.Debug()
	}
	if rid := chimw.GetReqID(ctx); rid != "" {
		evt = evt.Str("request_id", rid)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Int("args", len(ev.Args)).
		Str("sql", compact(ev.SQL)).
		Msg("pg query")
}

// compact folds whitespace runs so multi line statements stay on one log line
func compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }

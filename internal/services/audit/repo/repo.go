// Package repo provides clickhouse access for draw audit events
package repo

import (
	"context"
	"time"

	"secretsanta/internal/platform/store"
	"secretsanta/internal/services/audit/domain"
)

// Table is the clickhouse table holding draw events
const Table = "draw_events"

const schema = `
CREATE TABLE IF NOT EXISTS draw_events (
	at            DateTime64(3, 'UTC'),
	drawing_id    String,
	participants  UInt16,
	restrictions  UInt16,
	fixations     UInt16,
	attempts      UInt32,
	strategy      LowCardinality(String),
	outcome       LowCardinality(String),
	duration_us   UInt32
) ENGINE = MergeTree
ORDER BY (at, drawing_id)
TTL toDateTime(at) + INTERVAL 400 DAY
`

// Repo defines the repository contract for audit
type Repo interface {
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, ev domain.DrawEvent) error
	Summary(ctx context.Context, since time.Time) ([]domain.OutcomeCount, error)
}

// CH implements Repo on the clickhouse seam
type CH struct{ c store.Clickhouse }

// NewCH binds the repo to a clickhouse seam
func NewCH(c store.Clickhouse) *CH {
	if c == nil {
		panic("audit.Repo requires a non nil clickhouse")
	}
	return &CH{c: c}
}

// EnsureSchema creates the events table when missing
func (r *CH) EnsureSchema(ctx context.Context) error {
	return r.c.Exec(ctx, schema)
}

// Insert writes one event in column order
func (r *CH) Insert(ctx context.Context, ev domain.DrawEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	row := []any{
		at.UTC(),
		ev.DrawingID,
		clamp16(ev.Participants),
		clamp16(ev.Restrictions),
		clamp16(ev.Fixations),
		uint32(max(ev.Attempts, 0)),
		ev.Strategy,
		ev.Outcome,
		uint32(min(max(ev.Duration.Microseconds(), 0), int64(^uint32(0)))),
	}
	return r.c.Insert(ctx, Table, [][]any{row})
}

// Summary aggregates events since the given time by outcome
func (r *CH) Summary(ctx context.Context, since time.Time) ([]domain.OutcomeCount, error) {
	const sql = `
SELECT outcome, count() AS draws, avg(attempts) AS avg_attempts, avg(duration_us) / 1000 AS avg_duration_ms
FROM draw_events
WHERE at >= ?
GROUP BY outcome
ORDER BY outcome
`
	rows, err := r.c.Query(ctx, sql, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.OutcomeCount
	for rows.Next() {
		var oc domain.OutcomeCount
		if err := rows.Scan(&oc.Outcome, &oc.Draws, &oc.AvgAttempts, &oc.AvgDurationMS); err != nil {
			return nil, err
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

func clamp16(n int) uint16 {
	if n < 0 {
		return 0
	}
	if n > int(^uint16(0)) {
		return ^uint16(0)
	}
	return uint16(n)
}

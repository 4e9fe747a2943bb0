package store

import (
	"context"

	"secretsanta/internal/platform/store/ch"
)

// chAdapter exposes *ch.CH as the Clickhouse seam, only result sets need converting
type chAdapter struct{ *ch.CH }

var _ Clickhouse = chAdapter{}

func newCHAdapter(c *ch.CH) Clickhouse { return chAdapter{c} }

func (a chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

// chRows drops the close error the driver reports
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }

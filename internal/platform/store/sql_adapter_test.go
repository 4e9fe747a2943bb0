package store

import (
	"context"
	"errors"
	"testing"

	"secretsanta/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxStringRows is a pgx.Rows over string cells
type pgxStringRows struct {
	cols   []string
	data   [][]string
	idx    int
	closed bool
}

func (r *pgxStringRows) Close()                        { r.closed = true }
func (r *pgxStringRows) Err() error                    { return nil }
func (r *pgxStringRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *pgxStringRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}
func (r *pgxStringRows) Next() bool             { r.idx++; return r.idx < len(r.data) }
func (r *pgxStringRows) Values() ([]any, error) { return nil, nil }
func (r *pgxStringRows) RawValues() [][]byte    { return nil }
func (r *pgxStringRows) Conn() *pgx.Conn        { return nil }
func (r *pgxStringRows) Scan(dest ...any) error {
	for i, d := range dest {
		*(d.(*string)) = r.data[r.idx][i]
	}
	return nil
}

type pgxStringRow struct {
	val string
	err error
}

func (r pgxStringRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.val
	return nil
}

type fakePgx struct {
	rows   *pgxStringRows
	row    pgxStringRow
	tag    string
	err    error
	called []string
}

func (f *fakePgx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.called = append(f.called, sql)
	return pgconn.NewCommandTag(f.tag), f.err
}

func (f *fakePgx) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.called = append(f.called, sql)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakePgx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.called = append(f.called, sql)
	return f.row
}

type recordingTracer struct{ events []pg.QueryEvent }

func (r *recordingTracer) OnQuery(_ context.Context, ev pg.QueryEvent) {
	r.events = append(r.events, ev)
}

func TestTraced_ExecReportsAffectedRows(t *testing.T) {
	tr := &recordingTracer{}
	q := traced{q: &fakePgx{tag: "DELETE 2"}, tracer: tr, slowMs: -1}

	ct, err := q.Exec(context.Background(), "DELETE FROM restrictions WHERE pair_id = $1", "p1")
	if err != nil {
		t.Fatalf("Exec: %v", err)
	}
	if ct.RowsAffected() != 2 {
		t.Fatalf("rows affected = %d", ct.RowsAffected())
	}
	if len(tr.events) != 1 || tr.events[0].Slow {
		t.Fatalf("events = %+v", tr.events)
	}
}

func TestTraced_QueryWrapsRows(t *testing.T) {
	fp := &fakePgx{rows: &pgxStringRows{cols: []string{"giver", "receiver"}, data: [][]string{{"ana", "bia"}}, idx: -1}}
	q := traced{q: fp}

	rs, err := q.Query(context.Background(), "SELECT giver, receiver FROM draw_results")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 2 || cols[1] != "receiver" {
		t.Fatalf("columns = %v", cols)
	}
	if !rs.Next() {
		t.Fatal("expected a row")
	}
	var g, r string
	if err := rs.Scan(&g, &r); err != nil || g != "ana" || r != "bia" {
		t.Fatalf("scan = %s %s %v", g, r, err)
	}
	rs.Close()
	if !fp.rows.closed {
		t.Fatal("close should reach pgx rows")
	}
}

func TestTraced_QueryRowEmitsAfterScan(t *testing.T) {
	tr := &recordingTracer{}
	miss := errors.New("no rows")
	q := traced{q: &fakePgx{row: pgxStringRow{err: miss}}, tracer: tr}

	r := q.QueryRow(context.Background(), "SELECT name FROM drawings WHERE id = $1", "d1")
	if len(tr.events) != 0 {
		t.Fatal("nothing is reported before Scan")
	}
	var name string
	if err := r.Scan(&name); !errors.Is(err, miss) {
		t.Fatalf("scan err = %v", err)
	}
	if len(tr.events) != 1 || !errors.Is(tr.events[0].Err, miss) {
		t.Fatalf("events = %+v", tr.events)
	}
}

func TestTraced_SlowThreshold(t *testing.T) {
	tr := &recordingTracer{}
	q := traced{q: &fakePgx{tag: "UPDATE 1"}, tracer: tr, slowMs: 0}
	if _, err := q.Exec(context.Background(), "UPDATE drawings SET name = $2 WHERE id = $1"); err != nil {
		t.Fatal(err)
	}
	if !tr.events[0].Slow {
		t.Fatal("a zero threshold marks every query slow")
	}
}

func TestTraced_QueryErrorIsReported(t *testing.T) {
	tr := &recordingTracer{}
	down := errors.New("conn closed")
	q := traced{q: &fakePgx{err: down}, tracer: tr}

	if _, err := q.Query(context.Background(), "SELECT 1"); !errors.Is(err, down) {
		t.Fatalf("err = %v", err)
	}
	if len(tr.events) != 1 || tr.events[0].Err != down {
		t.Fatalf("events = %+v", tr.events)
	}
}

func TestPGAdapter_NilPing(t *testing.T) {
	var a *pgAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("nil adapter should fail ping")
	}
}

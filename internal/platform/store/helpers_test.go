package store

import (
	"context"
	"errors"
	"testing"

	perr "secretsanta/internal/platform/errors"
)

type affected int64

func (a affected) String() string      { return "" }
func (a affected) RowsAffected() int64 { return int64(a) }

// memRows serves fixed rows of strings, one column per dest
type memRows struct {
	data   [][]string
	idx    int
	err    error
	closed bool
}

func rowsOf(data ...[]string) *memRows { return &memRows{data: data, idx: -1} }

func (r *memRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}

func (r *memRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		p, ok := d.(*string)
		if !ok {
			return errors.New("only strings")
		}
		*p = row[i]
	}
	return nil
}

func (r *memRows) Err() error        { return r.err }
func (r *memRows) Close()            { r.closed = true }
func (r *memRows) Columns() []string { return nil }

type fakeQuerier struct {
	rows    *memRows
	tag     CommandTag
	err     error
	lastSQL string
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.lastSQL = sql
	return f.tag, f.err
}

func (f *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	f.lastSQL = sql
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) Row { return nil }

type pair struct{ giver, receiver string }

func scanPair(r Row) (pair, error) {
	var p pair
	err := r.Scan(&p.giver, &p.receiver)
	return p, err
}

func TestExecOne(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{tag: affected(1)}
	if err := ExecOne(ctx, q, "UPDATE drawings SET name = $2 WHERE id = $1", "d1", "Natal"); err != nil {
		t.Fatalf("ExecOne: %v", err)
	}

	q.tag = affected(0)
	if err := ExecOne(ctx, q, "DELETE FROM fixations WHERE id = $1", "f1"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	boom := errors.New("boom")
	q.err = boom
	if err := ExecOne(ctx, q, "DELETE FROM drawings"); !errors.Is(err, boom) {
		t.Fatalf("want exec error, got %v", err)
	}
}

func TestExecSome_CountsRows(t *testing.T) {
	q := &fakeQuerier{tag: affected(2)}
	n, err := ExecSome(context.Background(), q, "DELETE FROM restrictions WHERE pair_id = $1", "p1")
	if err != nil || n != 2 {
		t.Fatalf("ExecSome = %d, %v", n, err)
	}
}

func TestOne(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{rows: rowsOf([]string{"ana", "bia"})}
	got, err := One(ctx, q, scanPair, "SELECT giver, receiver FROM draw_results")
	if err != nil || got != (pair{"ana", "bia"}) {
		t.Fatalf("One = %+v, %v", got, err)
	}
	if !q.rows.closed {
		t.Fatal("rows should be closed")
	}

	q.rows = rowsOf()
	if _, err := One(ctx, q, scanPair, "SELECT"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("empty result: want ErrNotFound, got %v", err)
	}

	q.rows = rowsOf([]string{"a", "b"}, []string{"c", "d"})
	if _, err := One(ctx, q, scanPair, "SELECT"); err == nil {
		t.Fatal("more than one row should fail")
	}

	q.rows = rowsOf()
	q.rows.err = errors.New("iter")
	if _, err := One(ctx, q, scanPair, "SELECT"); err == nil || errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("iterator error should win over not found, got %v", err)
	}
}

func TestMany(t *testing.T) {
	ctx := context.Background()

	q := &fakeQuerier{rows: rowsOf([]string{"ana", "bia"}, []string{"bia", "caio"}, []string{"caio", "ana"})}
	got, err := Many(ctx, q, scanPair, "SELECT giver, receiver FROM draw_results")
	if err != nil || len(got) != 3 || got[2] != (pair{"caio", "ana"}) {
		t.Fatalf("Many = %+v, %v", got, err)
	}

	q.rows = rowsOf()
	got, err = Many(ctx, q, scanPair, "SELECT")
	if err != nil || got != nil {
		t.Fatalf("empty Many = %+v, %v", got, err)
	}

	q.rows = rowsOf([]string{"only one column"})
	if _, err := Many(ctx, q, scanPair, "SELECT"); err == nil {
		t.Fatal("scan error should surface")
	}

	q.err = errors.New("down")
	if _, err := Many(ctx, q, scanPair, "SELECT"); err == nil {
		t.Fatal("query error should surface")
	}
}

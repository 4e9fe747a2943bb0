package repokit

import (
	"context"
	"errors"

	"secretsanta/internal/platform/store"
)

// ErrNoSQL is returned by Nop for any statement
var ErrNoSQL = errors.New("repokit: no sql backend configured")

// Nop is a TxRunner for repos that keep state outside sql
// Tx runs fn directly with Nop as the queryer and statements fail with ErrNoSQL
type Nop struct{}

// Exec implements Queryer
func (Nop) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, ErrNoSQL }

// Query implements Queryer
func (Nop) Query(context.Context, string, ...any) (Rows, error) { return nil, ErrNoSQL }

// QueryRow implements Queryer
func (Nop) QueryRow(context.Context, string, ...any) Row { return nopRow{} }

// Tx implements TxRunner
func (n Nop) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(n)
}

type nopRow struct{}

func (nopRow) Scan(...any) error { return ErrNoSQL }

var _ TxRunner = Nop{}

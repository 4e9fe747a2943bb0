package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	kit "secretsanta/internal/platform/testkit"
)

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil || s.RDS != nil {
		t.Fatalf("seams PG=%T CH=%T RDS=%T", s.PG, s.CH, s.RDS)
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_BadURLs(t *testing.T) {
	t.Parallel()
	cases := []struct {
		prefix string
		cfg    Config
	}{
		{"pg: ", Config{PG: PGConfig{Enabled: true, URL: "://bad"}}},
		{"ch: ", Config{CH: CHConfig{Enabled: true, URL: "://bad"}}},
		// postgres fails first, the rest is never dialed
		{"pg: ", Config{
			PG:  PGConfig{Enabled: true, URL: "://bad"},
			CH:  CHConfig{Enabled: true, URL: "clickhouse://localhost:9000"},
			RDS: RedisConfig{Enabled: true, Addr: "127.0.0.1:1"},
		}},
	}
	for _, tc := range cases {
		s, err := Open(context.Background(), tc.cfg)
		if err == nil || s != nil {
			t.Fatalf("Open(%+v) = %v, %v", tc.cfg, s, err)
		}
		if !strings.HasPrefix(err.Error(), tc.prefix) {
			t.Fatalf("error %q should start with %q", err, tc.prefix)
		}
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatal(err)
	}
	s.Log.Info().Msg("hello")
	kit.MustContain(t, buf.String(), `"component":"store"`)
}

// plainTx is a TxRunner that cannot be pinged or closed
type plainTx struct{}

func (plainTx) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (plainTx) Query(context.Context, string, ...any) (Rows, error)      { return nil, nil }
func (plainTx) QueryRow(context.Context, string, ...any) Row             { return nil }
func (plainTx) Tx(context.Context, func(RowQuerier) error) error         { return nil }

type pingTx struct {
	plainTx
	err error
}

func (p *pingTx) Ping(context.Context) error { return p.err }

type fakeRedis struct {
	pingErr error
	closed  *[]string
}

func (f *fakeRedis) Acquire(context.Context, string, string, time.Duration) (bool, error) {
	return true, nil
}
func (f *fakeRedis) Release(context.Context, string, string) error { return nil }
func (f *fakeRedis) Ping(context.Context) error                    { return f.pingErr }
func (f *fakeRedis) Close() error {
	if f.closed != nil {
		*f.closed = append(*f.closed, "redis")
	}
	return nil
}

type closingTx struct {
	plainTx
	closed *[]string
}

func (c *closingTx) Close() error {
	*c.closed = append(*c.closed, "pg")
	return errors.New("pool busy")
}

func TestGuard(t *testing.T) {
	t.Parallel()
	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatal("nil store should fail")
	}

	if err := (&Store{PG: plainTx{}}).Guard(context.Background()); err != nil {
		t.Fatalf("non pinger pg should be skipped, got %v", err)
	}
	if err := (&Store{PG: &pingTx{}}).Guard(context.Background()); err != nil {
		t.Fatalf("healthy pg: %v", err)
	}

	err := (&Store{
		PG:  &pingTx{err: errors.New("conn refused")},
		RDS: &fakeRedis{pingErr: errors.New("down")},
	}).Guard(context.Background())
	if err == nil {
		t.Fatal("want joined error")
	}
	kit.MustContain(t, err.Error(), "pg: conn refused")
	kit.MustContain(t, err.Error(), "redis: down")
}

func TestClose_ReverseOrder(t *testing.T) {
	t.Parallel()
	var closed []string
	s := &Store{PG: &closingTx{closed: &closed}, RDS: &fakeRedis{closed: &closed}}

	err := s.Close(context.Background())
	if len(closed) != 2 || closed[0] != "redis" || closed[1] != "pg" {
		t.Fatalf("close order = %v", closed)
	}
	if err == nil || !strings.Contains(err.Error(), "pg: pool busy") {
		t.Fatalf("err = %v", err)
	}
}

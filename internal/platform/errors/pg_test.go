package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code, col, constraint string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ColumnName: col, ConstraintName: constraint}
}

func TestDBErrorCode(t *testing.T) {
	cases := map[string]ErrorCode{
		"23505": ErrorCodeDuplicateKey,
		"23503": ErrorCodeInvalidArgument,
		"22P02": ErrorCodeInvalidArgument,
		"22001": ErrorCodeInvalidArgument,
		"23502": ErrorCodeValidation,
		"23514": ErrorCodeValidation,
		"40001": ErrorCodeUnavailable,
		"40P01": ErrorCodeUnavailable,
		"57P03": ErrorCodeUnavailable,
		"XX000": ErrorCodeDB,
	}
	for code, want := range cases {
		got, ok := DBErrorCode(fmt.Errorf("exec: %w", pg(code, "", "")))
		if !ok || got != want {
			t.Fatalf("DBErrorCode(%s) = %d,%v want %d", code, got, ok, want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatal("non pg errors are not ok")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil || FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatal("nil stays nil")
	}

	err := FromPostgres(pg("23505", "", "draw_results_token_key"), "insert result")
	if !IsCode(err, ErrorCodeDuplicateKey) || !IsDuplicateKey(err) {
		t.Fatalf("err = %v", err)
	}

	err = FromPostgresf(stderrs.New("conn refused"), "%s query", "drawing")
	if !IsCode(err, ErrorCodeDB) || err.Error() != "drawing query: conn refused" {
		t.Fatalf("err = %v", err)
	}

	if got := FromPostgres(ErrNotFound, "load"); got != ErrNotFound {
		t.Fatalf("project errors without a pg cause pass through, got %v", got)
	}
}

func TestAttachFieldFromPg(t *testing.T) {
	cases := []struct {
		pgErr *pgconn.PgError
		want  string
	}{
		{pg("23502", "phone", ""), "phone"},
		{pg("23514", "", "drawings_max_value_check"), "value"},
		{pg("23505", "", "draw_results_token_key"), "token"},
		{pg("23505", "", "pkey"), ""},
	}
	for _, c := range cases {
		e, ok := As(FromPostgresWithField(c.pgErr, "write"))
		if !ok {
			t.Fatal("expected *Error")
		}
		if e.Field() != c.want {
			t.Fatalf("%s: field = %q, want %q", c.pgErr.ConstraintName, e.Field(), c.want)
		}
	}
	foreign := stderrs.New("x")
	if AttachFieldFromPg(foreign) != foreign {
		t.Fatal("non pg errors pass through")
	}
}

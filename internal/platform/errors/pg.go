package errors

// Postgres helpers mapping pgx errors onto project codes and fields

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the drawings schema can raise
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrNotNullViolation    = "23502"
	pgErrCheckViolation      = "23514"
	pgErrTruncation          = "22001"
	pgErrInvalidText         = "22P02"
	pgErrSerialization       = "40001"
	pgErrDeadlock            = "40P01"
	pgErrReadOnly            = "25006"
	pgErrCannotConnectNow    = "57P03"
)

// ExtractPgError returns the PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == pgErrUniqueViolation
}

// DBErrorCode maps a Postgres error to an ErrorCode
// !ok means err carried no PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgErrForeignKeyViolation, pgErrTruncation, pgErrInvalidText:
		// a participant id from another drawing or a malformed uuid
		return ErrorCodeInvalidArgument, true
	case pgErrNotNullViolation, pgErrCheckViolation:
		return ErrorCodeValidation, true
	case pgErrReadOnly, pgErrCannotConnectNow, pgErrSerialization, pgErrDeadlock:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a pg error with a mapped ErrorCode and message, nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok && !hasPg(err) {
		return err
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}

// AttachFieldFromPg names the offending field from the PgError column or constraint
// drawings_name_check yields name, generated suffixes like _key alone yield nothing
func AttachFieldFromPg(err error) error {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(err, col)
	}
	parts := strings.Split(strings.TrimSpace(pgErr.ConstraintName), "_")
	if n := len(parts); n >= 3 {
		switch parts[n-1] {
		case "key", "fkey", "pkey", "check":
			return WithField(err, parts[n-2])
		}
	}
	return err
}

// FromPostgresWithField is FromPostgres followed by AttachFieldFromPg
func FromPostgresWithField(err error, msg string) error {
	return AttachFieldFromPg(FromPostgres(err, msg))
}

func hasPg(err error) bool {
	_, ok := ExtractPgError(err)
	return ok
}

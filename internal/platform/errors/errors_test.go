package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrorCodeNotFound:        http.StatusNotFound,
		ErrorCodeInvalidArgument: http.StatusUnprocessableEntity,
		ErrorCodeInfeasible:      http.StatusUnprocessableEntity,
		ErrorCodeDuplicateKey:    http.StatusConflict,
		ErrorCodeConflict:        http.StatusConflict,
		ErrorCodeValidation:      http.StatusBadRequest,
		ErrorCodeJSON:            http.StatusBadRequest,
		ErrorCodeUnauthorized:    http.StatusUnauthorized,
		ErrorCodeForbidden:       http.StatusForbidden,
		ErrorCodeUnavailable:     http.StatusServiceUnavailable,
		ErrorCodeDB:              http.StatusInternalServerError,
		ErrorCodePanic:           http.StatusInternalServerError,
		ErrorCodeUnknown:         http.StatusInternalServerError,
		ErrorCode(999):           http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatusCode(code); got != want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", code, got, want)
		}
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := stderrs.New("connection reset")
	err := Wrap(cause, ErrorCodeDB, "load drawing")
	if err.Error() != "load drawing: connection reset" {
		t.Fatalf("message = %q", err.Error())
	}
	if !stderrs.Is(err, cause) {
		t.Fatal("wrapped cause should be reachable")
	}
	if Root(err) != cause {
		t.Fatal("Root should return the deepest cause")
	}
	if Root(nil) != nil {
		t.Fatal("Root(nil) should be nil")
	}

	plain := New(ErrorCodeConflict, "draw already in progress")
	if plain.Error() != "draw already in progress" {
		t.Fatalf("message = %q", plain.Error())
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatal("nil *Error should print <nil>")
	}
}

func TestCodeOfAndHTTPStatus(t *testing.T) {
	if CodeOf(stderrs.New("x")) != ErrorCodeUnknown {
		t.Fatal("foreign errors are unknown")
	}
	wrapped := Wrapf(Forbiddenf("no access to %s", "d1"), ErrorCodeForbidden, "authorize %d", 1)
	if !IsCode(wrapped, ErrorCodeForbidden) {
		t.Fatal("expected forbidden")
	}
	if HTTPStatus(Infeasiblef("no valid draw")) != http.StatusUnprocessableEntity {
		t.Fatal("infeasible should be 422")
	}
}

func TestWithFieldCopies(t *testing.T) {
	base := Validationf("name is required")
	named := WithField(base, "name")

	e, _ := As(named)
	if e.Field() != "name" {
		t.Fatalf("field = %q", e.Field())
	}
	if b, _ := As(base); b.Field() != "" {
		t.Fatal("WithField must not mutate the original")
	}
	foreign := stderrs.New("x")
	if WithField(foreign, "f") != foreign {
		t.Fatal("foreign errors pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if (WireFrom(nil) != Wire{}) {
		t.Fatal("nil should give the zero Wire")
	}
	w := WireFrom(WithField(DuplicateKeyf("name already used"), "name"))
	if w.Code != ErrorCodeDuplicateKey || w.Message != "name already used" || w.Field != "name" {
		t.Fatalf("wire = %+v", w)
	}
	w = WireFrom(Wrap(stderrs.New("secret dsn"), ErrorCodeDB, "store draw"))
	if w.Message != "store draw" {
		t.Fatalf("cause leaked into wire: %q", w.Message)
	}
	w = WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("wire = %+v", w)
	}
}

func TestSugarCodes(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{DuplicateKeyf("x"), ErrorCodeDuplicateKey},
		{JSONErrf("x"), ErrorCodeJSON},
		{PanicErrf("x"), ErrorCodePanic},
		{Unauthorizedf("x"), ErrorCodeUnauthorized},
		{Forbiddenf("x"), ErrorCodeForbidden},
		{Conflictf("x"), ErrorCodeConflict},
		{Infeasiblef("x"), ErrorCodeInfeasible},
		{Validationf("x"), ErrorCodeValidation},
		{ErrNotFound, ErrorCodeNotFound},
	}
	for _, c := range cases {
		if !IsCode(c.err, c.code) {
			t.Fatalf("%v: code = %d, want %d", c.err, CodeOf(c.err), c.code)
		}
	}
}

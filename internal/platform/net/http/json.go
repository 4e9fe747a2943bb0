package http

import (
	"net/http"

	"secretsanta/internal/platform/net/http/bind"
)

// JSONHandler binds and validates T, calls fn and wraps the result in an envelope
// a Response returned by fn is written as is
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

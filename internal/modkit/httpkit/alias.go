// Package httpkit is what modules import for handlers and routing
// it re-exports the platform http package so modules never import it directly
package httpkit

import (
	"net/http"
	"strings"

	perrs "secretsanta/internal/platform/errors"
	pnet "secretsanta/internal/platform/net"
	phttp "secretsanta/internal/platform/net/http"
)

type (
	// Envelope is the response body of every JSON endpoint
	Envelope = phttp.Envelope

	// Response is what handlers return
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response whose status comes from err
func Error(err error) Response { return phttp.Error(err) }

// JSON binds and validates T then calls fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler { return phttp.JSONHandler(fn) }

// Call adapts a handler that reads no body, a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// Param returns a path parameter captured by the router
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// Query returns a trimmed query string value
func Query(r *http.Request, key string) string { return strings.TrimSpace(r.URL.Query().Get(key)) }

// Bearer returns the credential Protected accepted for this request
func Bearer(r *http.Request) (string, error) {
	if b := pnet.Bearer(r.Context()); b != "" {
		return b, nil
	}
	return "", perrs.Unauthorizedf("missing bearer token")
}

// Fail writes err as an error envelope for handlers that write their own bodies
func Fail(w http.ResponseWriter, r *http.Request, err error) { phttp.RespondError(w, r, err) }

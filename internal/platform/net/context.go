// Package net carries request scoped values and the wire envelope shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey struct{}

// WithRequestID stores reqID where chi's RequestID middleware would
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on ctx, empty when none
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// WithBearer stores the bearer credential an auth port accepted
func WithBearer(ctx context.Context, bearer string) context.Context {
	if bearer == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, bearer)
}

// Bearer returns the accepted bearer credential, empty on public routes
func Bearer(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}

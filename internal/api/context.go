package api

import "context"

// RequestIDHeader carries the inbound request id to the backend.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

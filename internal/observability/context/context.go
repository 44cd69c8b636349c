package context

import (
	stdctx "context"

	"github.com/oklog/ulid/v2"
)

type requestIDKey struct{}

type correlationIDKey struct{}

// WithRequestID stores the inbound request id.
func WithRequestID(ctx stdctx.Context, requestID string) stdctx.Context {
	if requestID == "" {
		return ctx
	}
	return stdctx.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

// WithCorrelationID stores a correlation id that survives across internal calls.
func WithCorrelationID(ctx stdctx.Context, id string) stdctx.Context {
	if id == "" {
		return ctx
	}
	return stdctx.WithValue(ctx, correlationIDKey{}, id)
}

func CorrelationIDFromContext(ctx stdctx.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return val
	}
	return ""
}

// EnsureCorrelationID guarantees a correlation id on the context, generating a ULID when missing.
func EnsureCorrelationID(ctx stdctx.Context) (stdctx.Context, string) {
	cid := CorrelationIDFromContext(ctx)
	if cid == "" {
		cid = ulid.Make().String()
	}
	return WithCorrelationID(ctx, cid), cid
}

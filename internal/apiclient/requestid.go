package apiclient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader correlates client log lines with service logs.
const RequestIDHeader = "X-Request-ID"

type ctxKey string

const keyRequestID ctxKey = "request_id"

// WithRequestID stores a request id in ctx. An empty id leaves ctx unchanged.
func WithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestIDFromContext returns the request id stored in ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(keyRequestID).(string); ok {
		return v
	}
	return ""
}

func NewRequestID() string { return uuid.NewString() }

// RequestContext returns a factory for per-request contexts derived from
// parent. Each context carries a fresh request id and, when timeout > 0, a
// deadline. Cancelling parent cancels every request made through it.
func RequestContext(parent context.Context, timeout time.Duration) func() (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return func() (context.Context, context.CancelFunc) {
		ctx := WithRequestID(parent, NewRequestID())
		if timeout <= 0 {
			return context.WithCancel(ctx)
		}
		return context.WithTimeout(ctx, timeout)
	}
}

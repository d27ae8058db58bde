package utils

import (
	"context"
	"time"
)

// DefaultQueryTimeout is the default timeout for store calls.
const DefaultQueryTimeout = 30 * time.Second

// SlowCallTimeout covers the PDF-and-email leg of quote submission, which
// talks to SMTP.
const SlowCallTimeout = 60 * time.Second

// GetQueryContext returns a context with timeout derived from the inbound
// request context so cancellation propagates to store and SMTP calls.
func GetQueryContext(parentCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	return context.WithTimeout(parentCtx, timeout)
}

// GetDefaultQueryContext returns a context with the default timeout.
func GetDefaultQueryContext(parentCtx context.Context) (context.Context, context.CancelFunc) {
	return GetQueryContext(parentCtx, DefaultQueryTimeout)
}

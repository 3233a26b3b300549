package client

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string

const correlationIDKey contextKey = "correlationId"

// correlationIDField is the log key carrying the correlation id
const correlationIDField = "correlation_id"

// WithCorrelationID stores the correlation id forwarded to the gateway and
// attaches it to the context logger
func WithCorrelationID(ctx context.Context, id string) context.Context {
	logger := contextLogger(ctx).With().Str(correlationIDField, id).Logger()
	ctx = logger.WithContext(ctx)
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext retrieves the correlation id from context
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// contextLogger returns the logger stored in ctx, falling back to the global one
func contextLogger(ctx context.Context) *zerolog.Logger {
	logger := log.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return logger
}

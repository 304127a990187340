package util

import (
	"context"
)

type contextKey string

const (
	CTXKeyRequestID     contextKey = "request_id"
	CTXKeyDisableLogger contextKey = "disable_logger"
	CTXKeyGeneration    contextKey = "generation"
)

// RequestIDFromContext returns the request ID stored by the request ID middleware.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CTXKeyRequestID).(string)
	return id, ok && id != ""
}

// DisableLogger marks ctx so LogFromContext hands out a disabled logger.
func DisableLogger(ctx context.Context, shouldDisable bool) context.Context {
	return context.WithValue(ctx, CTXKeyDisableLogger, shouldDisable)
}

func ShouldDisableLogger(ctx context.Context) bool {
	s, ok := ctx.Value(CTXKeyDisableLogger).(bool)
	return ok && s
}

// WithGeneration annotates ctx with the interaction generation a request belongs to.
func WithGeneration(ctx context.Context, generation uint64) context.Context {
	return context.WithValue(ctx, CTXKeyGeneration, generation)
}

func GenerationFromContext(ctx context.Context) (uint64, bool) {
	g, ok := ctx.Value(CTXKeyGeneration).(uint64)
	return g, ok
}

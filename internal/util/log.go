package util

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogFromContext returns the request scoped logger stored in ctx, falling back
// to the global logger. A context marked with DisableLogger yields a no-op logger.
func LogFromContext(ctx context.Context) *zerolog.Logger {
	if ShouldDisableLogger(ctx) {
		l := zerolog.Nop()
		return &l
	}

	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		l = &log.Logger
	}

	if g, ok := GenerationFromContext(ctx); ok {
		ll := l.With().Uint64("generation", g).Logger()
		return &ll
	}

	return l
}

func LogFromEchoContext(c echo.Context) *zerolog.Logger {
	return LogFromContext(c.Request().Context())
}

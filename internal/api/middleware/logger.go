package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/intent-wallet/internal/util"
)

type LoggerConfig struct {
	Skipper         echoMiddleware.Skipper
	Level           zerolog.Level
	LogRequestQuery bool
	LogCaller       bool
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper: echoMiddleware.DefaultSkipper,
	Level:   zerolog.DebugLevel,
}

func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig stores a request scoped logger in the request context and
// logs every finished request. Query strings are only logged on request since
// callback URIs carry encrypted payloads.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			lctx := log.With().Str("id", id)
			if config.LogCaller {
				lctx = lctx.Caller()
			}
			logger := lctx.Logger()

			ctx := logger.WithContext(req.Context())
			ctx = context.WithValue(ctx, util.CTXKeyRequestID, id)
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			event := logger.WithLevel(config.Level).
				Str("method", req.Method).
				Str("url", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration_ms", time.Since(start))

			if config.LogRequestQuery {
				event = event.Str("query", req.URL.RawQuery)
			}
			if err != nil {
				event = event.Err(err)
			}

			event.Msg("http_request")

			return nil
		}
	}
}

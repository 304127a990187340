package router

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers"
	"github/chapool/intent-wallet/internal/api/middleware"
)

func Init(s *api.Server) error {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.HTTPErrorHandler = HTTPErrorHandler(s)

	// ---
	// General middleware
	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.Recover())
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level:           s.Config.Logger.RequestLevel,
			LogRequestQuery: s.Config.Logger.LogRequestQuery,
			LogCaller:       s.Config.Logger.LogCaller,
			Skipper: func(c echo.Context) bool {
				return c.Path() == s.Config.Prometheus.Path
			},
		}))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORS())
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	if s.Config.Prometheus.Enabled {
		s.Echo.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "intent_wallet",
			Subsystem:  "http",
			Registerer: s.Metrics.Registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == s.Config.Prometheus.Path
			},
		}))
	}

	s.Router = &api.Router{
		Routes:       nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:         s.Echo.Group(""),
		Management:   s.Echo.Group("/-"),
		Callback:     s.Echo.Group("/phantom"),
		APIV1Session: s.Echo.Group("/api/v1"),
		APIV1Intents: s.Echo.Group("/api/v1/intents"),
		WellKnown:    s.Echo.Group("/.well-known"),
	}

	if s.Config.Prometheus.Enabled {
		s.Router.Routes = append(s.Router.Routes, s.Router.Root.GET(s.Config.Prometheus.Path,
			echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: s.Metrics.Registry})))
	}

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)

	return nil
}

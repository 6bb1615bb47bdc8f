package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/adapter/handler/http"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/config"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/middleware/auth"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/logger"
)

// Handlers are the endpoints mounted by the server. Ledger is optional.
type Handlers struct {
	Payments *handlers.PaymentHandler
	Bookings *handlers.BookingHandler
	Ledger   *handlers.LedgerHandler
}

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	handlers Handlers
}

func NewServer(cfg *config.Config, logger *zap.Logger, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	s := &Server{
		config:   cfg,
		logger:   logger,
		echo:     e,
		handlers: h,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	addr := s.config.Server.HTTP.Address()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	logger.WithEchoLogger(s.echo, s.logger)
	s.echo.Use(middleware.RequestID())
	s.echo.Use(logger.NewEchoRequestLogger(s.logger))
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Issuer: s.config.JWT.Issuer,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
		},
	}

	v1 := s.echo.Group("/api/v1")
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	ledger := s.handlers.Ledger
	if !s.config.TestEndpointsEnabled() {
		ledger = nil
	}
	if ledger != nil {
		s.logger.Warn("Simulated bank ledger endpoint enabled",
			zap.String("environment", s.config.Service.Environment))
	}

	handlers.RegisterRoutes(v1, protected, s.handlers.Payments, s.handlers.Bookings, ledger)
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avillega/shoprec/internal/profile"
	"github.com/avillega/shoprec/recommend"
	apiv1 "github.com/avillega/shoprec/server/router/api/v1"
	"github.com/avillega/shoprec/store"
	"github.com/avillega/shoprec/vecindex"
)

// Server is the shoprec HTTP server.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	notifier   *recommend.Notifier
}

// NewServer creates the HTTP server and wires the recommendation pipeline.
// When no embedding endpoint is configured the catalog API still works and the
// similarity endpoints report the feature as unavailable.
func NewServer(ctx context.Context, instanceProfile *profile.Profile, storeInstance *store.Store) (*Server, error) {
	e := echo.New()
	e.Debug = instanceProfile.IsDev()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return uuid.NewString()
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status)
			return nil
		},
	}))

	s := &Server{
		Profile:    instanceProfile,
		Store:      storeInstance,
		echoServer: e,
	}

	var recommendService *recommend.Service
	if instanceProfile.IsEmbeddingEnabled() {
		embedder, err := vecindex.NewEmbedder(vecindex.NewEmbeddingConfigFromProfile(instanceProfile))
		if err != nil {
			return nil, errors.Wrap(err, "failed to create embedder")
		}
		index := vecindex.NewIndex(embedder, storeInstance, instanceProfile.EmbeddingModel)
		metrics := recommend.NewMetrics(prometheus.DefaultRegisterer)
		recommendService = recommend.NewService(storeInstance, index, metrics)
		s.notifier = recommend.NewNotifier(recommendService.HandleSaleProductsFinalized)
		slog.Info("recommendation pipeline enabled", "model", instanceProfile.EmbeddingModel)
	} else {
		slog.Info("recommendation pipeline disabled, no embedding endpoint configured")
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	apiV1Service := apiv1.NewAPIV1Service(instanceProfile, storeInstance, recommendService, s.notifier)
	apiV1Service.RegisterRoutes(e)

	_ = ctx
	return s, nil
}

// Start starts the server in a background goroutine and returns immediately.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)

	if s.Profile.UNIXSock != "" {
		// Remove the stale socket left by a previous run.
		_ = os.Remove(s.Profile.UNIXSock)
		listener, err := net.Listen("unix", s.Profile.UNIXSock)
		if err != nil {
			return errors.Wrapf(err, "failed to listen on unix socket %s", s.Profile.UNIXSock)
		}
		s.echoServer.Listener = listener
		address = ""
	}

	go func() {
		if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start echo server", "error", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests and the recommendation queue.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	if s.notifier != nil {
		s.notifier.Close()
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}

	slog.Info("shoprec stopped properly")
}

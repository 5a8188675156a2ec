package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerfiles "github.com/swaggo/files"
	swagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpcHealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/Nazarious-ucu/air-weather-api/docs"
	"github.com/Nazarious-ucu/air-weather-api/internal/config"
	"github.com/Nazarious-ucu/air-weather-api/internal/handlers/static"
	"github.com/Nazarious-ucu/air-weather-api/internal/handlers/weather"
	"github.com/Nazarious-ucu/air-weather-api/internal/services/health"
	loggerT "github.com/Nazarious-ucu/air-weather-api/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/air-weather-api/internal/services/metrics"
	serviceWeather "github.com/Nazarious-ucu/air-weather-api/internal/services/weather"
	fLogger "github.com/Nazarious-ucu/air-weather-api/pkg/logger"
)

const timeoutDuration = 5 * time.Second

// ServiceContainer holds initialized dependencies for servers.
type ServiceContainer struct {
	WeatherService *serviceWeather.Service
	Watcher        *health.Watcher
	GrpcServer     *grpc.Server

	Router     *gin.Engine
	Srv        *http.Server
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

// New prepares a new App with given config, zerolog logger, and metrics.
func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start serves HTTP and gRPC health until ctx is cancelled or a server fails.
func (a *App) Start(ctx context.Context) error {
	srvContainer, err := a.init()
	if err != nil {
		return err
	}

	if err := srvContainer.Watcher.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 2)

	go func() {
		l, lErr := net.Listen("tcp", a.cfg.Server.GrpcAddress)
		if lErr != nil {
			errCh <- lErr
			return
		}
		a.l.Info().Str("address", a.cfg.Server.GrpcAddress).Msg("gRPC health server running")
		if serveErr := srvContainer.GrpcServer.Serve(l); serveErr != nil {
			errCh <- serveErr
		}
	}()

	go func() {
		a.l.Info().Str("address", a.cfg.Server.Address).Msg("HTTP server running")
		if serveErr := srvContainer.Srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info().Msg("shutdown signal received")
	case runErr = <-errCh:
		a.l.Error().Err(runErr).Msg("server failed")
	}

	if err := a.Shutdown(srvContainer); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return errors.Join(runErr, err)
	}
	a.l.Info().Msg("application shutdown successfully")
	return runErr
}

// Shutdown stops the servers and the watcher, then flushes the HTTP trace log.
func (a *App) Shutdown(srvContainer ServiceContainer) error {
	a.l.Info().Msg("stopping application…")

	defer func(logger *zap.Logger) {
		if err := logger.Sync(); err != nil {
			a.l.Error().Err(err).Msg("failed to sync file logger")
		}
	}(srvContainer.fileLogger)

	srvContainer.Watcher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), timeoutDuration)
	defer cancel()

	var shutdownErr error
	if err := srvContainer.Srv.Shutdown(ctx); err != nil {
		a.l.Error().Err(err).Msg("HTTP shutdown error")
		shutdownErr = err
	} else {
		a.l.Info().Msg("HTTP server stopped")
	}

	srvContainer.GrpcServer.GracefulStop()
	a.l.Info().Msg("gRPC server stopped")

	return shutdownErr
}

// init wires services and routes without starting any listener.
func (a *App) init() (ServiceContainer, error) {
	a.l.Info().
		Str("address", a.cfg.Server.Address).
		Str("public_dir", a.cfg.Server.PublicDir).
		Str("default_city", a.cfg.OpenWeather.DefaultCity).
		Msg("initializing application")

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create file logger, upstream trace disabled")
		fileLogger = zap.NewNop()
	}

	// HTTP client: metrics -> trace logging -> default transport
	httpLogClient := &http.Client{Transport: loggerT.NewRoundTripper(fileLogger)}
	upstreamClient := metricsSvc.NewInstrumentedClient(httpLogClient, a.m)

	breakerCfg := serviceWeather.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	weatherClient := serviceWeather.NewBreakerWeatherClient("OpenWeatherMap", breakerCfg,
		serviceWeather.NewClientOpenWeatherMap(a.cfg.OpenWeather.WeatherURL, upstreamClient, a.l),
	)
	pollutionClient := serviceWeather.NewBreakerPollutionClient("AirPollution", breakerCfg,
		serviceWeather.NewClientAirPollution(a.cfg.OpenWeather.PollutionURL, upstreamClient, a.l),
	)

	weatherService := serviceWeather.NewService(a.l, a.cfg.OpenWeather, weatherClient, pollutionClient,
		serviceWeather.Options{
			DefaultCity: a.cfg.OpenWeather.DefaultCity,
			IconURL:     a.cfg.OpenWeather.IconURL,
			Timeout:     time.Duration(a.cfg.OpenWeather.Timeout) * time.Second,
		},
	)

	staticHandler, err := static.NewHandler(a.cfg.Server.PublicDir, a.l)
	if err != nil {
		return ServiceContainer{}, err
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(a.m.HTTPMiddleware())
	router.Use(staticHandler.Middleware())

	weatherHandler := weather.NewHandler(weatherService, a.m)

	api := router.Group("/api")
	{
		api.GET("/weather", weatherHandler.GetWeather)
	}
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	router.GET("/swagger/*any", swagger.WrapHandler(swaggerfiles.Handler))

	// gRPC health side-channel
	healthServer := grpcHealth.NewServer()
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(a.m.UnaryInterceptor()),
		grpc.StreamInterceptor(a.m.StreamInterceptor()),
	)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	a.m.RegisterGRPC(grpcServer)

	watcher := health.NewWatcher(healthServer, a.cfg.OpenWeather, a.cfg.Health.CheckSpec, a.l)

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
	}

	return ServiceContainer{
		WeatherService: weatherService,
		Watcher:        watcher,
		GrpcServer:     grpcServer,
		Router:         router,
		Srv:            httpServer,
		fileLogger:     fileLogger,
	}, nil
}

package health

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported for the weather API.
const ServiceName = "airweather.v1.WeatherAPI"

type keySource interface {
	Key() string
}

// Watcher periodically reports whether the API can serve requests. It only
// inspects local configuration and never calls the upstream.
type Watcher struct {
	server *health.Server
	keys   keySource
	spec   string
	cron   *cron.Cron
	logger zerolog.Logger
}

func NewWatcher(server *health.Server, keys keySource, spec string, logger zerolog.Logger) *Watcher {
	return &Watcher{
		server: server,
		keys:   keys,
		spec:   spec,
		cron:   cron.New(),
		logger: logger.With().Str("component", "HealthWatcher").Logger(),
	}
}

// Start runs one check immediately and schedules the rest.
func (w *Watcher) Start(ctx context.Context) error {
	w.Check(ctx)

	if _, err := w.cron.AddFunc(w.spec, func() { w.Check(ctx) }); err != nil {
		w.logger.Error().Err(err).Str("spec", w.spec).Msg("failed to schedule health check")
		return err
	}

	w.cron.Start()
	w.logger.Info().Str("spec", w.spec).Msg("health watcher started")
	return nil
}

// Stop waits for a running check to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
	w.server.Shutdown()
	w.logger.Info().Msg("health watcher stopped")
}

// Check updates the serving status from the credential state.
func (w *Watcher) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if w.keys.Key() == "" {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	w.server.SetServingStatus(ServiceName, status)
	w.server.SetServingStatus("", status)

	w.logger.Debug().Ctx(ctx).Str("status", status.String()).Msg("health status updated")
	return status
}

// --- File: notificationservice/service.go ---
package notificationservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
	"github.com/tinywideclouds/go-microservice-base/pkg/microservice"
	"github.com/tinywideclouds/go-microservice-base/pkg/middleware"

	"github.com/Gen3ratorX/clinic-app/internal/api"
	"github.com/Gen3ratorX/clinic-app/internal/metrics"
	"github.com/Gen3ratorX/clinic-app/internal/pipeline"
	"github.com/Gen3ratorX/clinic-app/notificationservice/config"
	"github.com/Gen3ratorX/clinic-app/pkg/dispatch"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
)

type Wrapper struct {
	*microservice.BaseServer
	pipelineService *messagepipeline.StreamingService[notification.TriggerEvent]
	logger          *slog.Logger
}

// New assembles the service around one injected client set.
func New(
	cfg *config.Config,
	consumer messagepipeline.MessageConsumer,
	store dispatch.NotificationStore,
	profiles dispatch.ProfileStore,
	gateway dispatch.PushGateway,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*Wrapper, error) {

	// 1. Base Server
	baseServer := microservice.NewBaseServer(logger, cfg.ListenAddr)

	// 2. Dispatcher
	dispatcher := pipeline.NewDispatcher(store, profiles, gateway, m, logger)

	// 3. Pipeline (door A: Pub/Sub)
	streamingService, err := messagepipeline.NewStreamingService(
		messagepipeline.StreamingServiceConfig{NumWorkers: cfg.NumPipelineWorkers},
		consumer,
		pipeline.TriggerEventTransformer,
		pipeline.NewProcessor(dispatcher, cfg.InvocationTimeout, logger),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create streaming service: %w", err)
	}

	// 4. API (door B: HTTP push)
	dispatchAPI := api.NewDispatchAPI(dispatcher, cfg.InvocationTimeout, logger)

	// Register Routes
	mux := baseServer.Mux()
	corsMiddleware := middleware.NewCorsMiddleware(cfg.CorsConfig, logger)

	mux.Handle("POST /api/v1/notifications/dispatch", corsMiddleware(http.HandlerFunc(dispatchAPI.Dispatch)))
	mux.Handle("OPTIONS /api/v1/", corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS preflight; headers handled by middleware
	})))
	mux.Handle("GET /metrics", m.Handler())

	return &Wrapper{
		BaseServer:      baseServer,
		pipelineService: streamingService,
		logger:          logger,
	}, nil
}

func (w *Wrapper) Start(ctx context.Context) error {
	w.logger.Info("Core processing pipeline starting...")
	if err := w.pipelineService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start processing service: %w", err)
	}
	w.SetReady(true)
	w.logger.Info("Service is now ready.")
	return w.BaseServer.Start()
}

func (w *Wrapper) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down service components...")
	var finalErr error
	if err := w.pipelineService.Stop(ctx); err != nil {
		w.logger.Error("Processing pipeline shutdown failed.", "err", err)
		finalErr = err
	}
	if err := w.BaseServer.Shutdown(ctx); err != nil {
		w.logger.Error("HTTP server shutdown failed.", "err", err)
		finalErr = err
	}
	w.logger.Info("Service shutdown complete.")
	return finalErr
}

package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/Gen3ratorX/clinic-app/pkg/dispatch"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
)

// NewProcessor adapts a dispatch.Handler to the streaming pipeline. Each event
// runs under its own invocation deadline; timeout <= 0 disables it.
func NewProcessor(
	handler dispatch.Handler,
	timeout time.Duration,
	logger *slog.Logger,
) messagepipeline.StreamProcessor[notification.TriggerEvent] {

	return func(ctx context.Context, original messagepipeline.Message, event *notification.TriggerEvent) error {
		procLogger := logger.With(
			"notification_id", event.DocumentID,
			"pubsub_msg_id", original.ID,
		)

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		if err := handler.Handle(ctx, event.Record()); err != nil {
			// Only store failures reach here; the record is not terminal yet.
			procLogger.Error("Notification left unprocessed", "err", err)
			return err // Retryable
		}
		return nil
	}
}

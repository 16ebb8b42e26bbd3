package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tinywideclouds/go-microservice-base/pkg/response"

	"github.com/Gen3ratorX/clinic-app/pkg/dispatch"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
)

// DispatchAPI is the HTTP door into the dispatcher, for trigger events pushed
// over HTTP instead of pulled from Pub/Sub.
type DispatchAPI struct {
	Handler dispatch.Handler
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewDispatchAPI(handler dispatch.Handler, timeout time.Duration, logger *slog.Logger) *DispatchAPI {
	return &DispatchAPI{
		Handler: handler,
		Timeout: timeout,
		Logger:  logger.With("component", "DispatchAPI"),
	}
}

// Dispatch handles POST /api/v1/notifications/dispatch.
//
// 204 once the record reached (or already had) its terminal state, 400 for
// an undecodable event, 500 if the terminal write failed.
func (api *DispatchAPI) Dispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var event notification.TriggerEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		api.Logger.Warn("Dispatch: JSON Decode failed", "err", err)
		response.WriteJSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := event.Validate(); err != nil {
		api.Logger.Warn("Dispatch: Validation failed", "err", err)
		response.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if api.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, api.Timeout)
		defer cancel()
	}

	if err := api.Handler.Handle(ctx, event.Record()); err != nil {
		api.Logger.Error("Dispatch: notification left unprocessed", "notification_id", event.DocumentID, "err", err)
		if errors.Is(err, context.DeadlineExceeded) {
			response.WriteJSONError(w, http.StatusGatewayTimeout, "dispatch timed out")
			return
		}
		response.WriteJSONError(w, http.StatusInternalServerError, "failed to record outcome")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

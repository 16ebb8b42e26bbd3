package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gen3ratorX/clinic-app/internal/metrics"
	"github.com/Gen3ratorX/clinic-app/pkg/dispatch"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	platform "github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

// Dispatcher turns one created notification record into one push attempt and
// one terminal write: validate, enrich, send, record.
type Dispatcher struct {
	store    dispatch.NotificationStore
	profiles dispatch.ProfileStore
	gateway  dispatch.PushGateway
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ dispatch.Handler = (*Dispatcher)(nil)

func NewDispatcher(
	store dispatch.NotificationStore,
	profiles dispatch.ProfileStore,
	gateway dispatch.PushGateway,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		profiles: profiles,
		gateway:  gateway,
		metrics:  m,
		logger:   logger.With("component", "NotificationDispatcher"),
	}
}

// Handle never returns delivery or validation failures; those end up on the
// record. Only a failed terminal write is returned.
func (d *Dispatcher) Handle(ctx context.Context, record notification.Record) error {
	log := d.logger.With("notification_id", record.ID)
	log.Info("Processing notification", "fields", record.Fields)

	if record.Processed() {
		log.Info("Already processed, skipping")
		d.metrics.Processed(metrics.OutcomeSkipped)
		return nil
	}

	token, ok := record.Token()
	if !ok {
		log.Error("Missing or invalid FCM token")
		return d.finalize(ctx, log, record.ID, notification.Failed(notification.ErrInvalidToken), metrics.OutcomeInvalid)
	}

	fullName := d.resolveName(ctx, log, record)
	body := record.Body(fullName)
	log.Info("Full name resolved", "full_name", fullName)
	log.Info("Notification body", "body", body)

	data, err := record.Data()
	if err != nil {
		log.Error("Error sending notification", "err", err)
		return d.finalize(ctx, log, record.ID, notification.Failed(err), metrics.OutcomeFailed)
	}

	payload := notification.Payload{
		Content: platform.NotificationContent{
			Title: record.Title(),
			Body:  body,
		},
		Data:  data,
		Token: token,
	}

	start := time.Now()
	messageID, err := d.gateway.Send(ctx, payload)
	d.metrics.ObserveSend(start)
	if err != nil {
		log.Error("Error sending notification", "err", err, "kind", notification.KindOf(err))
		return d.finalize(ctx, log, record.ID, notification.Failed(err), metrics.OutcomeFailed)
	}

	log.Info("Notification sent", "message_id", messageID)
	return d.finalize(ctx, log, record.ID, notification.Sent(messageID), metrics.OutcomeSent)
}

// resolveName maps every lookup failure to notification.FallbackName.
func (d *Dispatcher) resolveName(ctx context.Context, log *slog.Logger, record notification.Record) string {
	userID, ok := record.UserID()
	if !ok {
		if raw, present := record.Fields[notification.FieldUserID]; present && raw != nil {
			log.Warn("Could not fetch patient name", "err", fmt.Sprintf("userId must be a non-empty string, got %T", raw))
		}
		return notification.FallbackName
	}

	profile, err := d.profiles.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, notification.ErrProfileNotFound):
		log.Warn("No user found for userId", "user_id", userID)
		d.metrics.Lookup(metrics.LookupNotFound)
		return notification.FallbackName
	case err != nil:
		log.Warn("Could not fetch patient name", "user_id", userID, "err", err)
		d.metrics.Lookup(metrics.LookupError)
		return notification.FallbackName
	}

	d.metrics.Lookup(metrics.LookupFound)
	return profile.FullName()
}

func (d *Dispatcher) finalize(ctx context.Context, log *slog.Logger, id string, outcome notification.Outcome, label string) error {
	err := d.store.Finalize(ctx, id, outcome)
	switch {
	case errors.Is(err, notification.ErrAlreadyProcessed):
		log.Warn("Notification finalized by another invocation, outcome discarded", "failed", outcome.Failed)
		d.metrics.Processed(metrics.OutcomeDuplicate)
		return nil
	case err != nil:
		log.Error("Failed to record notification outcome", "err", err)
		return fmt.Errorf("finalize notification %s: %w", id, &notification.DispatchError{Kind: notification.KindStore, Err: err})
	}

	d.metrics.Processed(label)
	return nil
}

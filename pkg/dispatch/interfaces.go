// --- File: pkg/dispatch/interfaces.go ---
package dispatch

import (
	"context"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
)

// Handler runs the dispatch pipeline for one created notification record.
type Handler interface {
	Handle(ctx context.Context, record notification.Record) error
}

// PushGateway defines the contract for a component that delivers one
// notification to one device token (e.g., Google's FCM, Apple's APNS).
type PushGateway interface {
	// Send delivers the payload and returns the provider's message id.
	Send(ctx context.Context, payload notification.Payload) (string, error)
}

// ProfileStore resolves the user profiles referenced by notifications.
type ProfileStore interface {
	// GetProfile returns notification.ErrProfileNotFound for unknown users.
	GetProfile(ctx context.Context, userID string) (*notification.UserProfile, error)
}

// NotificationStore records the terminal state of a notification.
type NotificationStore interface {
	// Finalize applies the outcome exactly once. It returns
	// notification.ErrAlreadyProcessed if the record was already terminal.
	Finalize(ctx context.Context, notificationID string, outcome notification.Outcome) error
}

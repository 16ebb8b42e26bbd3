// --- File: internal/platform/fcm/fcmgateway.go ---
package fcm

import (
	"context"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
	"github.com/Gen3ratorX/clinic-app/pkg/notification"
)

// MessagingClient defines the subset of the Firebase Messaging API we use.
// *messaging.Client satisfies it.
type MessagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type Gateway struct {
	client MessagingClient
	logger *slog.Logger
}

func NewGateway(client MessagingClient, logger *slog.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: logger.With("component", "FCMGateway"),
	}
}

// Send delivers a single-token message. The returned id has the form
// "projects/{project}/messages/{id}".
func (g *Gateway) Send(ctx context.Context, payload notification.Payload) (string, error) {
	msg := &messaging.Message{
		Token: payload.Token,
		Data:  payload.Data,
		Notification: &messaging.Notification{
			Title: payload.Content.Title,
			Body:  payload.Content.Body,
		},
	}

	messageID, err := g.client.Send(ctx, msg)
	if err != nil {
		reason := classify(err)
		g.logger.Debug("FCM send rejected", "reason", reason, "err", err)
		// The display message stays the SDK's message; callers branch on Reason.
		return "", &notification.DispatchError{
			Kind:   notification.KindDelivery,
			Reason: reason,
			Err:    err,
		}
	}
	return messageID, nil
}

func classify(err error) string {
	switch {
	case messaging.IsRegistrationTokenNotRegistered(err):
		return "registration-token-not-registered"
	case messaging.IsInvalidArgument(err):
		return "invalid-argument"
	case messaging.IsSenderIDMismatch(err):
		return "sender-id-mismatch"
	case messaging.IsQuotaExceeded(err):
		return "quota-exceeded"
	case messaging.IsThirdPartyAuthError(err):
		return "third-party-auth-error"
	case messaging.IsUnavailable(err):
		return "unavailable"
	case messaging.IsInternal(err):
		return "internal"
	default:
		return "unknown"
	}
}

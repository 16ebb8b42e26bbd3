// --- File: internal/platform/apns/apnsgateway.go ---
// Package apns provides the client for the Apple Push Notification Service.
package apns

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// APNSClient defines the subset of the apns2.Client methods we use.
// This allows mocking for unit tests.
type APNSClient interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

type Gateway struct {
	client APNSClient
	topic  string // The App Bundle ID
	logger *slog.Logger
}

// Config holds the credentials required to sign APNs tokens.
type Config struct {
	KeyID    string
	TeamID   string
	BundleID string
	// P8KeyContent is the raw string content of the .p8 file
	P8KeyContent string
	// Development targets the sandbox endpoint.
	Development bool
}

// NewGateway parses the P8 key immediately to fail fast on startup if
// credentials are bad.
func NewGateway(cfg Config, logger *slog.Logger) (*Gateway, error) {
	authKey, err := token.AuthKeyFromBytes([]byte(cfg.P8KeyContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse APNs P8 key: %w", err)
	}

	tokenSource := &token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	}

	client := apns2.NewTokenClient(tokenSource)
	if cfg.Development {
		client = client.Development()
	} else {
		client = client.Production()
	}

	return newGateway(client, cfg.BundleID, logger), nil
}

func newGateway(client APNSClient, topic string, logger *slog.Logger) *Gateway {
	return &Gateway{
		client: client,
		topic:  topic,
		logger: logger.With("component", "APNSGateway"),
	}
}

// Send pushes one notification. The message id is the apns-id APNs assigned.
func (g *Gateway) Send(ctx context.Context, p notification.Payload) (string, error) {
	builder := payload.NewPayload().
		AlertTitle(p.Content.Title).
		AlertBody(p.Content.Body)

	for k, v := range p.Data {
		builder.Custom(k, v)
	}

	n := &apns2.Notification{
		DeviceToken: p.Token,
		Topic:       g.topic,
		Payload:     builder,
	}

	res, err := g.client.PushWithContext(ctx, n)
	if err != nil {
		return "", &notification.DispatchError{
			Kind:   notification.KindDelivery,
			Reason: "transport",
			Err:    fmt.Errorf("apns transport failed: %w", err),
		}
	}

	if !res.Sent() {
		g.logger.Debug("APNs rejected notification", "reason", res.Reason, "status", res.StatusCode)
		return "", &notification.DispatchError{
			Kind:    notification.KindDelivery,
			Reason:  res.Reason,
			Message: res.Reason,
		}
	}
	return res.ApnsID, nil
}

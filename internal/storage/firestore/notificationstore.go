package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
)

// NotificationStore implements dispatch.NotificationStore using Google Cloud Firestore.
type NotificationStore struct {
	client     *firestore.Client
	collection string
}

func NewNotificationStore(client *firestore.Client, collection string) *NotificationStore {
	return &NotificationStore{client: client, collection: collection}
}

// Finalize merges the outcome into notifications/{id} inside a transaction
// that first checks the record is not already terminal.
func (s *NotificationStore) Finalize(ctx context.Context, id string, outcome notification.Outcome) error {
	ref := s.client.Collection(s.collection).Doc(id)

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return fmt.Errorf("read notification %s: %w", id, err)
		}
		if processed, err := snap.DataAt(notification.FieldProcessed); err == nil && processed == true {
			return notification.ErrAlreadyProcessed
		}
		return tx.Update(ref, outcomeUpdates(outcome))
	})
}

// outcomeUpdates: error is only written on failure, messageId only on success.
func outcomeUpdates(outcome notification.Outcome) []firestore.Update {
	updates := []firestore.Update{
		{Path: notification.FieldProcessed, Value: true},
		{Path: notification.FieldFailed, Value: outcome.Failed},
	}
	if outcome.Failed {
		updates = append(updates, firestore.Update{Path: notification.FieldError, Value: outcome.Error})
	} else {
		updates = append(updates, firestore.Update{Path: notification.FieldMessageID, Value: outcome.MessageID})
	}
	return append(updates, firestore.Update{Path: notification.FieldProcessedAt, Value: firestore.ServerTimestamp})
}

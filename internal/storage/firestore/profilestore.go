package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
)

// ProfileStore implements dispatch.ProfileStore over the users collection.
type ProfileStore struct {
	client     *firestore.Client
	collection string
}

func NewProfileStore(client *firestore.Client, collection string) *ProfileStore {
	return &ProfileStore{client: client, collection: collection}
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (*notification.UserProfile, error) {
	snap, err := s.client.Collection(s.collection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, notification.ErrProfileNotFound
		}
		return nil, fmt.Errorf("firestore get user %s: %w", userID, err)
	}
	if !snap.Exists() {
		return nil, notification.ErrProfileNotFound
	}

	var profile notification.UserProfile
	if err := snap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	return &profile, nil
}

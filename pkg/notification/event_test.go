package notification_test

import (
	"testing"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTriggerEvent(t *testing.T) {
	t.Run("Keeps raw field types", func(t *testing.T) {
		ev, err := notification.DecodeTriggerEvent([]byte(`{"documentId":"n1","value":{"to":123,"userId":"u1"}}`))
		require.NoError(t, err)

		record := ev.Record()
		assert.Equal(t, "n1", record.ID)
		_, ok := record.Token()
		assert.False(t, ok, "numeric token must not validate")
		userID, ok := record.UserID()
		assert.True(t, ok)
		assert.Equal(t, "u1", userID)
	})

	t.Run("Missing value yields empty record", func(t *testing.T) {
		ev, err := notification.DecodeTriggerEvent([]byte(`{"documentId":"n2"}`))
		require.NoError(t, err)
		assert.NotNil(t, ev.Record().Fields)
	})

	t.Run("Rejects missing documentId", func(t *testing.T) {
		_, err := notification.DecodeTriggerEvent([]byte(`{"value":{"to":"tok"}}`))
		assert.ErrorIs(t, err, notification.ErrMissingDocumentID)
	})

	t.Run("Rejects document paths", func(t *testing.T) {
		_, err := notification.DecodeTriggerEvent([]byte(`{"documentId":"notifications/n1"}`))
		assert.Error(t, err)
	})

	t.Run("Rejects malformed json", func(t *testing.T) {
		_, err := notification.DecodeTriggerEvent([]byte("not-json"))
		assert.ErrorContains(t, err, "invalid trigger event json")
	})
}

// --- File: internal/platform/apns/gateway_internal_test.go ---
package apns

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/sideshow/apns2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	platform "github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

type MockAPNSClient struct {
	mock.Mock
}

func (m *MockAPNSClient) PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apns2.Response), args.Error(1)
}

func TestGateway_Send(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	p := notification.Payload{
		Content: platform.NotificationContent{Title: "New Appointment", Body: "Hello"},
		Data:    map[string]string{"appointmentId": "a1"},
		Token:   "device-1",
	}

	t.Run("Happy Path - apns-id becomes message id", func(t *testing.T) {
		mockClient := new(MockAPNSClient)
		gateway := newGateway(mockClient, "com.clinic.app", logger)

		mockClient.On("PushWithContext", mock.Anything, mock.MatchedBy(func(n *apns2.Notification) bool {
			return n.DeviceToken == "device-1" && n.Topic == "com.clinic.app"
		})).Return(&apns2.Response{StatusCode: http.StatusOK, ApnsID: "apns-123"}, nil)

		id, err := gateway.Send(ctx, p)

		require.NoError(t, err)
		assert.Equal(t, "apns-123", id)
		mockClient.AssertExpectations(t)
	})

	t.Run("Rejected - reason becomes error message", func(t *testing.T) {
		mockClient := new(MockAPNSClient)
		gateway := newGateway(mockClient, "com.clinic.app", logger)

		mockClient.On("PushWithContext", mock.Anything, mock.Anything).Return(&apns2.Response{
			StatusCode: http.StatusBadRequest,
			Reason:     apns2.ReasonBadDeviceToken,
		}, nil)

		_, err := gateway.Send(ctx, p)

		require.Error(t, err)
		assert.Equal(t, apns2.ReasonBadDeviceToken, err.Error())
		assert.Equal(t, notification.KindDelivery, notification.KindOf(err))
	})

	t.Run("Transport Failure", func(t *testing.T) {
		mockClient := new(MockAPNSClient)
		gateway := newGateway(mockClient, "com.clinic.app", logger)
		mockClient.On("PushWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		_, err := gateway.Send(ctx, p)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

// --- File: internal/pipeline/transformer.go ---
// Package pipeline contains the core message processing components for the service.
package pipeline

import (
	"context"
	"fmt"

	"github.com/Gen3ratorX/clinic-app/pkg/notification"
	"github.com/illmade-knight/go-dataflow/pkg/messagepipeline"
)

// TriggerEventTransformer is a dataflow Transformer that unmarshals and
// validates a raw message payload into a notification.TriggerEvent.
//
// Field values are kept untyped so the dispatcher, not the decoder, decides
// whether a malformed field fails the notification.
func TriggerEventTransformer(
	_ context.Context,
	msg *messagepipeline.Message,
) (*notification.TriggerEvent, bool, error) {
	event, err := notification.DecodeTriggerEvent(msg.Payload)
	if err != nil {
		// skip=true lets the StreamingService Nack the message towards the DLQ.
		return nil, true, fmt.Errorf("failed to decode trigger event from message %s: %w", msg.ID, err)
	}

	return event, false, nil
}

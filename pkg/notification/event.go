package notification

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TriggerEvent is the document-created event relayed to the service, for
// example from Eventarc through Pub/Sub or as an HTTP push.
type TriggerEvent struct {
	DocumentID string         `json:"documentId"`
	Value      map[string]any `json:"value"`
}

// ErrMissingDocumentID rejects events that cannot be tied to a document.
var ErrMissingDocumentID = errors.New("trigger event has no documentId")

// DecodeTriggerEvent parses and validates a raw event payload.
func DecodeTriggerEvent(raw []byte) (*TriggerEvent, error) {
	var ev TriggerEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("invalid trigger event json: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (e *TriggerEvent) Validate() error {
	if strings.TrimSpace(e.DocumentID) == "" {
		return ErrMissingDocumentID
	}
	if strings.Contains(e.DocumentID, "/") {
		return fmt.Errorf("trigger event documentId %q must be a bare document id", e.DocumentID)
	}
	return nil
}

// Record returns the created document carried by the event.
func (e *TriggerEvent) Record() Record {
	fields := e.Value
	if fields == nil {
		fields = map[string]any{}
	}
	return Record{ID: e.DocumentID, Fields: fields}
}

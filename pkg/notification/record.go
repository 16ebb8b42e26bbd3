// Package notification contains the domain models shared by the dispatcher,
// its stores and its push gateways.
package notification

import (
	"strings"

	platform "github.com/tinywideclouds/go-platform/pkg/notification/v1"
)

const (
	// DefaultTitle is used when the record carries no usable title.
	DefaultTitle = "New Appointment"
	// FallbackName is used when the sender's profile cannot be resolved.
	FallbackName = "a patient"
	// DefaultBodyPrefix precedes the resolved full name in the default body.
	DefaultBodyPrefix = "You have a new appointment request from "
)

// Field names of a notification document.
const (
	FieldTo          = "to"
	FieldUserID      = "userId"
	FieldTitle       = "title"
	FieldBody        = "body"
	FieldData        = "data"
	FieldProcessed   = "processed"
	FieldFailed      = "failed"
	FieldError       = "error"
	FieldMessageID   = "messageId"
	FieldProcessedAt = "processedAt"
)

// Record is a newly created notification document. Fields holds the raw
// document values: the accessors decide what counts as a usable value, so a
// wrongly-typed field is judged at the point it is used rather than at decode.
type Record struct {
	ID     string
	Fields map[string]any
}

// Processed reports whether the record already reached its terminal state.
func (r Record) Processed() bool {
	v, _ := r.Fields[FieldProcessed].(bool)
	return v
}

// Token returns the push destination, ok=false if absent, empty or not a string.
func (r Record) Token() (string, bool) {
	return nonEmptyString(r.Fields[FieldTo])
}

// UserID returns the referenced profile id, if present.
func (r Record) UserID() (string, bool) {
	return nonEmptyString(r.Fields[FieldUserID])
}

// Title returns the record's title or DefaultTitle.
func (r Record) Title() string {
	if t, ok := nonEmptyString(r.Fields[FieldTitle]); ok {
		return t
	}
	return DefaultTitle
}

// Body returns the record's body when it has visible text, otherwise the
// default body addressed from fullName.
func (r Record) Body(fullName string) string {
	if b, ok := r.Fields[FieldBody].(string); ok && len(strings.TrimSpace(b)) > 0 {
		return b
	}
	return DefaultBodyPrefix + fullName
}

// Data returns the side-channel payload. A missing map yields an empty one;
// any non-string value makes the whole payload invalid.
func (r Record) Data() (map[string]string, error) {
	out := make(map[string]string)
	switch raw := r.Fields[FieldData].(type) {
	case nil:
		return out, nil
	case map[string]string:
		for k, v := range raw {
			out[k] = v
		}
		return out, nil
	case map[string]any:
		for k, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, ErrNonStringData
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, ErrNonStringData
	}
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// UserProfile is the read-only view of a user document.
type UserProfile struct {
	FirstName string `firestore:"firstName" json:"firstName"`
	LastName  string `firestore:"lastName" json:"lastName"`
}

// FullName joins first and last name. Blank names yield an empty string.
func (p UserProfile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Payload is what a PushGateway delivers.
type Payload struct {
	Content platform.NotificationContent
	Data    map[string]string
	Token   string
}

// Outcome is the single terminal write made to a Record.
type Outcome struct {
	Failed    bool
	Error     string
	MessageID string
}

// Sent builds the success outcome for a provider message id.
func Sent(messageID string) Outcome {
	return Outcome{MessageID: messageID}
}

// Failed builds the failure outcome. The stored message is err's display text.
func Failed(err error) Outcome {
	return Outcome{Failed: true, Error: err.Error()}
}

package notification

import "errors"

// ErrorKind classifies failures inside the dispatch pipeline.
type ErrorKind string

const (
	KindInvalidInput ErrorKind = "invalid_input"
	KindEnrichment   ErrorKind = "enrichment"
	KindDelivery     ErrorKind = "delivery"
	KindStore        ErrorKind = "store"
)

// DispatchError carries a kind and provider reason for internal branching,
// and a display message for the record's error field.
type DispatchError struct {
	Kind ErrorKind
	// Reason is a provider-specific code, e.g. "registration-token-not-registered".
	Reason  string
	Message string
	Err     error
}

func (e *DispatchError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or "" if it is not a DispatchError.
func KindOf(err error) ErrorKind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

var (
	// ErrInvalidToken is recorded when the record has no usable destination.
	ErrInvalidToken = &DispatchError{Kind: KindInvalidInput, Message: "Missing or invalid FCM token"}

	// ErrNonStringData is recorded when the data map cannot be sent as-is.
	ErrNonStringData = &DispatchError{Kind: KindDelivery, Reason: "invalid-argument", Message: "data must only contain string values"}

	// ErrProfileNotFound is returned by a ProfileStore for an unknown user.
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrAlreadyProcessed is returned by a NotificationStore when the record
	// reached its terminal state before the write was applied.
	ErrAlreadyProcessed = errors.New("notification already processed")
)

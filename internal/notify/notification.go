// Package notify implements the push half of the notification fabric: a
// small HTTP listener per role and a best-effort broadcast client. Both the
// push path and the filesystem watch path funnel into the same dispatch
// callback, so delivery is at-least-once and receivers must tolerate
// duplicates.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jorge-barreto/mesh/internal/role"
)

// Kind classifies a notification.
type Kind string

const (
	KindUpdate Kind = "update"
	KindError  Kind = "error"
)

// Notification signals that a role finished (or failed) a processing run.
// It is transient: once dispatched it is never persisted.
type Notification struct {
	ID        string          `json:"id,omitempty"`
	Source    role.Role       `json:"source"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewUpdate builds an update notification carrying a structured payload.
func NewUpdate(source role.Role, payload any) (Notification, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Notification{}, fmt.Errorf("encoding notification payload: %w", err)
	}
	return Notification{
		ID:        uuid.NewString(),
		Source:    source,
		Kind:      KindUpdate,
		Payload:   data,
		Timestamp: time.Now().UTC(),
	}, nil
}

// NewError builds an error notification carrying the failure description.
func NewError(source role.Role, cause error) Notification {
	payload, _ := json.Marshal(map[string]string{"error": cause.Error()})
	return Notification{
		ID:        uuid.NewString(),
		Source:    source,
		Kind:      KindError,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks that a notification names a known source and kind.
func (n Notification) Validate() error {
	if _, err := role.Parse(string(n.Source)); err != nil {
		return fmt.Errorf("notification: %w", err)
	}
	if n.Kind != KindUpdate && n.Kind != KindError {
		return fmt.Errorf("notification: unknown kind %q", n.Kind)
	}
	return nil
}

// ErrorText returns the error description carried by an error notification,
// or an empty string.
func (n Notification) ErrorText() string {
	if n.Kind != KindError {
		return ""
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(n.Payload, &body); err != nil {
		return string(n.Payload)
	}
	return body.Error
}

package webhook

import "github.com/google/uuid"

// Notifier triggers webhook fan-out for a tenant event. Implementations
// return as soon as deliveries are enqueued; there is no delivery receipt,
// ordering guarantee, or retry.
type Notifier interface {
	Trigger(tenantID uuid.UUID, eventName string, payload map[string]interface{})
}

// NoOpNotifier discards all triggers. Used in tests and minimal wiring.
type NoOpNotifier struct{}

// Trigger does nothing.
func (NoOpNotifier) Trigger(uuid.UUID, string, map[string]interface{}) {}

var _ Notifier = NoOpNotifier{}

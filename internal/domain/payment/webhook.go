package payment

import "time"

// Processor webhook event types relevant to fulfillment.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// WebhookEvent is a verified processor notification. The carried event type
// only hints at the outcome for logging; reconciliation always re-reads the
// canonical status from the processor and never trusts the event itself.
type WebhookEvent struct {
	ProviderEventID string    `json:"provider_event_id"`
	Type            string    `json:"type"`
	IntentID        string    `json:"intent_id"`
	ReceivedAt      time.Time `json:"received_at"`
}

// StatusForEventType maps a processor event type to the status it announces.
// The second return is false for event types this system does not handle.
func StatusForEventType(eventType string) (Status, bool) {
	switch eventType {
	case EventCheckoutCompleted:
		return StatusSucceeded, true
	case EventCheckoutExpired:
		return StatusExpired, true
	case EventPaymentFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

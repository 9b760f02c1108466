package stripe

import (
	"encoding/json"
	"errors"
	"time"

	"coursepay/internal/domain/payment"
)

var ErrNoIntentID = errors.New("webhook event carries no payment intent id")

type eventPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
		} `json:"object"`
	} `json:"data"`
}

// ParseEvent extracts the intent reference from a webhook payload. Checkout
// session events reference the intent indirectly, payment_intent events carry
// it as the object id.
func ParseEvent(payload []byte, receivedAt time.Time) (payment.WebhookEvent, error) {
	var raw eventPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return payment.WebhookEvent{}, err
	}

	intentID := raw.Data.Object.PaymentIntent
	if intentID == "" {
		intentID = raw.Data.Object.ID
	}
	if intentID == "" {
		return payment.WebhookEvent{}, ErrNoIntentID
	}

	return payment.WebhookEvent{
		ProviderEventID: raw.ID,
		Type:            raw.Type,
		IntentID:        intentID,
		ReceivedAt:      receivedAt,
	}, nil
}

package webhook

import (
	"context"

	"coursepay/internal/domain/payment"
)

// Processor defines the interface for processing provider webhooks.
// Implementations can handle webhooks synchronously or asynchronously.
type Processor interface {
	ProcessPaymentWebhook(ctx context.Context, event payment.WebhookEvent) error
}

package webhook

import (
	"context"
	"fmt"

	"coursepay/internal/domain/payment"
	"coursepay/internal/messaging"
)

// AsyncProcessor acknowledges webhooks immediately and defers reconciliation
// to a Kafka consumer.
type AsyncProcessor struct {
	publisher messaging.Publisher
}

func NewAsyncProcessor(publisher messaging.Publisher) *AsyncProcessor {
	return &AsyncProcessor{publisher: publisher}
}

func (p *AsyncProcessor) ProcessPaymentWebhook(ctx context.Context, event payment.WebhookEvent) error {
	envelope, err := messaging.NewEnvelope(event.IntentID, "payment.webhook", event)
	if err != nil {
		return fmt.Errorf("create envelope: %w", err)
	}
	return p.publisher.Publish(ctx, envelope)
}

package webhook

import (
	"context"

	"coursepay/internal/domain/payment"
)

// SyncProcessor reconciles the referenced intent before the webhook
// response is written.
type SyncProcessor struct {
	payments *payment.PaymentService
}

func NewSyncProcessor(payments *payment.PaymentService) *SyncProcessor {
	return &SyncProcessor{payments: payments}
}

func (p *SyncProcessor) ProcessPaymentWebhook(ctx context.Context, event payment.WebhookEvent) error {
	_, err := p.payments.Reconcile(ctx, event.IntentID)
	return err
}

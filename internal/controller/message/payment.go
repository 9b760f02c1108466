// Package message contains Kafka message controllers.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coursepay/internal/domain/payment"
	"coursepay/internal/messaging"
	"coursepay/pkg/logger"
)

// PaymentMessageController handles payment webhook messages from Kafka.
type PaymentMessageController struct {
	logger  *logger.Logger
	service *payment.PaymentService
}

// NewPaymentMessageController creates a new payment message controller.
func NewPaymentMessageController(l *logger.Logger, s *payment.PaymentService) *PaymentMessageController {
	return &PaymentMessageController{
		logger:  l,
		service: s,
	}
}

// HandleMessage reconciles the intent referenced by a single webhook message.
func (c *PaymentMessageController) HandleMessage(ctx context.Context, key, value []byte) error {
	var env messaging.Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		c.logger.Error("Failed to unmarshal envelope: key=%s error=%v", string(key), err)
		return fmt.Errorf("unmarshal envelope: %w", err)
	}

	c.logger.Debug("Processing payment message: event_id=%s key=%s type=%s",
		env.EventID, env.Key, env.Type)

	var event payment.WebhookEvent
	if err := json.Unmarshal(env.Payload, &event); err != nil {
		c.logger.Error("Failed to unmarshal webhook payload: event_id=%s error=%v", env.EventID, err)
		return fmt.Errorf("unmarshal webhook: %w", err)
	}

	p, err := c.service.Reconcile(ctx, event.IntentID)
	if err != nil {
		// A webhook may reference an intent this system never created.
		if errors.Is(err, payment.ErrNotFound) {
			c.logger.Info("Webhook for unknown intent ignored: event_id=%s intent_id=%s provider_event_id=%s",
				env.EventID, event.IntentID, event.ProviderEventID)
			return nil
		}

		c.logger.Error("Failed to reconcile intent: event_id=%s intent_id=%s error=%v",
			env.EventID, event.IntentID, err)
		return err
	}

	c.logger.Info("Payment webhook processed: event_id=%s intent_id=%s status=%s",
		env.EventID, event.IntentID, p.Status)

	return nil
}

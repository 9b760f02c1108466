package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"coursepay/internal/domain/payment"
	"coursepay/internal/external/stripe"
	"coursepay/internal/webhook"
	"coursepay/pkg/logger"
	"coursepay/pkg/metrics"

	"github.com/gin-gonic/gin"
)

const maxWebhookBody = 1 << 20 // 1MB

type WebhookHandler struct {
	logger    *logger.Logger
	processor webhook.Processor
	secret    string
	tolerance time.Duration
}

func NewWebhookHandler(l *logger.Logger, processor webhook.Processor, secret string, tolerance time.Duration) WebhookHandler {
	return WebhookHandler{
		logger:    l,
		processor: processor,
		secret:    secret,
		tolerance: tolerance,
	}
}

// Stripe handles provider webhooks. The only 400 is a signature failure;
// everything that verifies is acknowledged with 200 once handled, including
// duplicates, unknown event types and events for unknown intents. The event
// type is never applied directly, it only selects whether to reconcile.
func (h *WebhookHandler) Stripe(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot read body"})
		return
	}

	sig := c.GetHeader(stripe.SignatureHeader)
	if err := stripe.VerifySignature(body, sig, h.secret, h.tolerance, time.Now()); err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "bad_signature").Inc()
		h.logger.Warn("Webhook signature rejected: error=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid signature"})
		return
	}

	event, err := stripe.ParseEvent(body, time.Now().UTC())
	if err != nil {
		// Signed but unusable payloads are acknowledged so the provider
		// stops retrying something we can never act on.
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "unparseable").Inc()
		h.logger.Warn("Webhook payload not parseable: error=%v", err)
		c.Status(http.StatusOK)
		return
	}

	hinted, known := payment.StatusForEventType(event.Type)
	if !known {
		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "ignored").Inc()
		h.logger.Debug("Webhook event type ignored: type=%s intent_id=%s", event.Type, event.IntentID)
		c.Status(http.StatusOK)
		return
	}
	h.logger.Debug("Webhook event accepted: type=%s intent_id=%s hinted_status=%s",
		event.Type, event.IntentID, hinted)

	if err := h.processor.ProcessPaymentWebhook(c.Request.Context(), event); err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			metrics.WebhookEventsTotal.WithLabelValues(event.Type, "unknown_intent").Inc()
			h.logger.Info("Webhook for unknown intent acknowledged: intent_id=%s provider_event_id=%s",
				event.IntentID, event.ProviderEventID)
			c.Status(http.StatusOK)
			return
		}

		metrics.WebhookEventsTotal.WithLabelValues(event.Type, "error").Inc()
		h.logger.Error("Webhook processing failed: type=%s intent_id=%s error=%v",
			event.Type, event.IntentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Processing failed"})
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues(event.Type, "processed").Inc()
	c.Status(http.StatusOK)
}

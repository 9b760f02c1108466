package app

import (
	"context"
	"time"

	"coursepay/config"
	"coursepay/internal/controller/message"
	"coursepay/internal/domain/payment"
	"coursepay/internal/external/kafka"
	"coursepay/internal/messaging"
	"coursepay/pkg/logger"
)

// StartWorkers starts the Kafka consumer for payment webhook processing.
// Stops when ctx is cancelled.
func StartWorkers(
	ctx context.Context,
	l *logger.Logger,
	cfg config.Config,
	paymentService *payment.PaymentService,
) {
	paymentController := message.NewPaymentMessageController(l, paymentService)
	paymentConsumer := kafka.NewConsumer(
		l,
		cfg.KafkaBrokers,
		cfg.KafkaPaymentsTopic,
		cfg.KafkaPaymentsConsumerGroup,
	)
	dlq := kafka.NewDLQPublisher(l, cfg.KafkaBrokers, cfg.KafkaPaymentsDLQTopic)

	handle := func(ctx context.Context, key, value []byte) error {
		if err := paymentController.HandleMessage(ctx, key, value); err != nil {
			// Park the message in the DLQ, otherwise a poison message
			// blocks the partition forever.
			return dlq.PublishToDLQ(ctx, key, value, err)
		}
		return nil
	}

	runner := messaging.NewRunner(l, []messaging.Worker{paymentConsumer}, handle)

	go func() {
		l.Info("Starting payment webhook consumer: topic=%s group=%s",
			cfg.KafkaPaymentsTopic, cfg.KafkaPaymentsConsumerGroup)
		if err := runner.Start(ctx); err != nil {
			l.Error("Payment runner failed: error=%v", err)
		}
		if err := dlq.Close(); err != nil {
			l.Error("Failed to close DLQ publisher: error=%v", err)
		}
	}()
}

// StartPendingSweep periodically re-reconciles payments stuck in pending so
// a lost webhook cannot strand a settled purchase. Interval 0 disables it.
func StartPendingSweep(
	ctx context.Context,
	l *logger.Logger,
	cfg config.Config,
	paymentService *payment.PaymentService,
) {
	if cfg.PendingSweepInterval <= 0 {
		l.Info("Pending sweep disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(cfg.PendingSweepInterval)
		defer ticker.Stop()

		l.Info("Pending sweep started: interval=%s min_age=%s batch=%d",
			cfg.PendingSweepInterval, cfg.PendingSweepMinAge, cfg.PendingSweepBatch)

		for {
			select {
			case <-ctx.Done():
				l.Info("Pending sweep stopped")
				return
			case <-ticker.C:
				swept, err := paymentService.SweepPending(ctx, cfg.PendingSweepMinAge, cfg.PendingSweepBatch)
				if err != nil {
					l.Error("Pending sweep run failed: swept=%d error=%v", swept, err)
					continue
				}
				if swept > 0 {
					l.Info("Pending sweep run complete: swept=%d", swept)
				}
			}
		}
	}()
}

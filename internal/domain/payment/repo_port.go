package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PaymentRepo interface {
	Create(ctx context.Context, p Payment) error
	ByIntentID(ctx context.Context, intentID string) (Payment, error)

	// TransitionFromPending atomically moves a payment into a terminal status
	// only while the stored status is still pending (compare-and-swap). It
	// returns false when the stored status was no longer pending; the loser
	// of a race observes the winner's state on the next read.
	TransitionFromPending(ctx context.Context, intentID string, to Status, receiptURL *string, settledAt time.Time) (bool, error)

	HasSucceeded(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
	HasSucceededPayment(ctx context.Context, userID uuid.UUID) (bool, error)
	SucceededByUser(ctx context.Context, userID uuid.UUID) ([]Payment, error)

	// PendingIntentsOlderThan lists intent ids stuck in pending, oldest first.
	PendingIntentsOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}

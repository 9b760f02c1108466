package payment

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Payment tracks a single charge attempt against the external processor.
// Identity is the processor-side intent id. Records are created in pending
// by intent creation, moved to a terminal status only by reconciliation and
// never deleted.
type Payment struct {
	IntentID    string            `json:"intent_id"`
	UserID      uuid.UUID         `json:"user_id"`
	CourseID    uuid.UUID         `json:"course_id"`
	AmountMinor int64             `json:"amount_minor"`
	Currency    string            `json:"currency"`
	Status      Status            `json:"status"`
	ReceiptURL  *string           `json:"receipt_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	SettledAt   *time.Time        `json:"settled_at,omitempty"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CourseTitle reads the course title snapshot taken at intent creation.
func (p Payment) CourseTitle() string {
	return p.Metadata["course_title"]
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
	StatusCanceled  Status = "canceled"
)

var AvailableStatuses = []Status{StatusPending, StatusSucceeded, StatusFailed, StatusExpired, StatusCanceled}

func NewStatus(raw string) (Status, error) {
	if slices.Contains(AvailableStatuses, Status(raw)) {
		return Status(raw), nil
	}
	return "", errors.New("invalid payment status")
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s != StatusPending && s != ""
}

func (s Status) CanBeUpdatedTo(newStatus Status) bool {
	if s != StatusPending {
		return false
	}
	return newStatus.IsTerminal()
}

// MinimumChargeMinor is the processor's smallest chargeable amount.
const MinimumChargeMinor = 50

// MinorUnits converts a decimal price to integer minor units using
// round-half-up (49.99 -> 4999, 10.005 -> 1001).
func MinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrInvalidAmount
	}

	minor := int64(math.Round(price * 100))
	if minor < MinimumChargeMinor {
		return 0, ErrAmountTooSmall
	}
	return minor, nil
}

package gateway

import "context"

//go:generate mockgen -source port.go -destination mock_port.go -package gateway

// Provider is the port to the external payment processor. Implementations
// must bound every call with the context deadline; a timed-out call leaves
// the local payment in pending, which is always safe to re-check later.
type Provider interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (Intent, error)
	// CancelIntent is best-effort compensation for an intent whose local
	// record failed to persist.
	CancelIntent(ctx context.Context, intentID string) error
}

type CreateIntentRequest struct {
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	Description   string
	Metadata      map[string]string
}

// Intent is the processor-side view of a charge attempt. Status is already
// normalized to the canonical set below; the concrete client owns the
// mapping from provider-specific statuses.
type Intent struct {
	ID           string
	ClientSecret string
	AmountMinor  int64
	Currency     string
	Status       IntentStatus
	ReceiptURL   string
}

// IntentStatus is the canonical payment state as reported by the processor.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
	IntentExpired   IntentStatus = "expired"
	IntentCanceled  IntentStatus = "canceled"
)

package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursepay/internal/domain/account"
	"coursepay/internal/domain/catalog"
	"coursepay/internal/domain/gateway"
	"coursepay/pkg/metrics"

	"github.com/google/uuid"
)

// Accounts is the slice of the account domain fulfillment needs: resolving
// the payer and granting course access after a successful payment.
type Accounts interface {
	UserByEmail(ctx context.Context, email string) (account.User, error)
	GrantCourseAccess(ctx context.Context, userID, courseID uuid.UUID) error
}

type PaymentService struct {
	repo     PaymentRepo
	provider gateway.Provider
	accounts Accounts
	catalog  catalog.CatalogRepo
}

func NewPaymentService(repo PaymentRepo, provider gateway.Provider, accounts Accounts, catalogRepo catalog.CatalogRepo) *PaymentService {
	return &PaymentService{
		repo:     repo,
		provider: provider,
		accounts: accounts,
		catalog:  catalogRepo,
	}
}

type CreateIntentRequest struct {
	Price     float64
	UserEmail string
	CourseID  uuid.UUID
}

type CreateIntentResult struct {
	IntentID     string `json:"payment_intent_id"`
	ClientSecret string `json:"client_secret"`
	AmountMinor  int64  `json:"amount_minor"`
	Currency     string `json:"currency"`
}

// CreateIntent validates the purchase request, opens an intent with the
// processor and persists the local record in pending. If the local persist
// fails after the processor call succeeded, the external intent is cancelled
// best-effort so no orphan keeps collecting money.
func (s *PaymentService) CreateIntent(ctx context.Context, req CreateIntentRequest) (CreateIntentResult, error) {
	amountMinor, err := MinorUnits(req.Price)
	if err != nil {
		return CreateIntentResult{}, err
	}

	user, err := s.accounts.UserByEmail(ctx, req.UserEmail)
	if err != nil {
		return CreateIntentResult{}, fmt.Errorf("resolve payer: %w", err)
	}

	course, err := s.catalog.CourseByID(ctx, req.CourseID)
	if err != nil {
		return CreateIntentResult{}, fmt.Errorf("resolve course: %w", err)
	}

	purchased, err := s.repo.HasSucceeded(ctx, user.ID, course.ID)
	if err != nil {
		return CreateIntentResult{}, fmt.Errorf("check prior purchase: %w", err)
	}
	if purchased {
		return CreateIntentResult{}, ErrAlreadyPurchased
	}

	intent, err := s.provider.CreateIntent(ctx, gateway.CreateIntentRequest{
		AmountMinor:   amountMinor,
		Currency:      course.Currency,
		CustomerEmail: user.Email,
		Description:   fmt.Sprintf("Purchase: %s", course.Title),
		Metadata: map[string]string{
			"user_id":      user.ID.String(),
			"course_id":    course.ID.String(),
			"course_title": course.Title,
		},
	})
	if err != nil {
		return CreateIntentResult{}, fmt.Errorf("create processor intent: %w", err)
	}

	now := time.Now().UTC()
	record := Payment{
		IntentID:    intent.ID,
		UserID:      user.ID,
		CourseID:    course.ID,
		AmountMinor: amountMinor,
		Currency:    course.Currency,
		Status:      StatusPending,
		Metadata: map[string]string{
			"course_title": course.Title,
			"user_name":    user.Name,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// Compensate so the processor side does not hold an intent this
		// system knows nothing about. The cancel outcome does not change
		// the error surfaced to the caller.
		_ = s.provider.CancelIntent(ctx, intent.ID)
		return CreateIntentResult{}, fmt.Errorf("persist payment: %w", err)
	}

	metrics.IntentsCreatedTotal.Inc()

	return CreateIntentResult{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountMinor:  amountMinor,
		Currency:     course.Currency,
	}, nil
}

// Reconcile applies the processor's canonical status for the intent to local
// state, exactly once in effect. Every entry point (client confirmation,
// webhook delivery, manual sweep) funnels through here, so the canonical
// status is always fetched fresh from the processor and never taken from the
// caller. Replays and concurrent invocations converge on the same end state:
// the conditional pending->terminal update is the only racy write, and the
// enrollment and role side effects are idempotent.
func (s *PaymentService) Reconcile(ctx context.Context, intentID string) (Payment, error) {
	record, err := s.repo.ByIntentID(ctx, intentID)
	if err != nil {
		return Payment{}, fmt.Errorf("load payment: %w", err)
	}

	intent, err := s.provider.RetrieveIntent(ctx, intentID)
	if err != nil {
		return Payment{}, fmt.Errorf("fetch canonical status: %w", err)
	}
	canonical, err := NewStatus(string(intent.Status))
	if err != nil {
		return Payment{}, fmt.Errorf("%w: %q", ErrInvalidStatus, intent.Status)
	}

	if record.Status.IsTerminal() {
		// Replayed webhook or duplicate confirmation: terminal state never
		// changes, report it as-is. Succeeded records still re-run the grant
		// so a crash between the status write and the enrollment is repaired
		// on the next delivery.
		if record.Status == StatusSucceeded {
			if err := s.accounts.GrantCourseAccess(ctx, record.UserID, record.CourseID); err != nil {
				return Payment{}, fmt.Errorf("grant course access: %w", err)
			}
		}
		metrics.ReconciliationsTotal.WithLabelValues("noop").Inc()
		return record, nil
	}

	if canonical == StatusPending {
		metrics.ReconciliationsTotal.WithLabelValues("still_pending").Inc()
		return record, nil
	}

	var receiptURL *string
	if intent.ReceiptURL != "" {
		receiptURL = &intent.ReceiptURL
	}

	won, err := s.repo.TransitionFromPending(ctx, intentID, canonical, receiptURL, time.Now().UTC())
	if err != nil {
		if errors.Is(err, ErrAlreadyPurchased) {
			return s.resolveDuplicatePurchase(ctx, record)
		}
		return Payment{}, fmt.Errorf("transition payment: %w", err)
	}

	// Side effects run regardless of who won the transition: both are
	// idempotent, and re-running them covers a winner that crashed between
	// the status write and the grant.
	if canonical == StatusSucceeded {
		if err := s.accounts.GrantCourseAccess(ctx, record.UserID, record.CourseID); err != nil {
			return Payment{}, fmt.Errorf("grant course access: %w", err)
		}
	}

	outcome := string(canonical)
	if !won {
		outcome = "lost_race"
	}
	metrics.ReconciliationsTotal.WithLabelValues(outcome).Inc()

	updated, err := s.repo.ByIntentID(ctx, intentID)
	if err != nil {
		return Payment{}, fmt.Errorf("reload payment: %w", err)
	}
	return updated, nil
}

// resolveDuplicatePurchase closes out an intent that succeeded at the
// processor for a (user, course) pair that already holds a succeeded payment.
// The duplicate can never be recorded as succeeded, so retrying the same
// delivery would fail forever; instead the record is moved to canceled and the
// processor intent is cancelled best-effort so the charge can be released.
func (s *PaymentService) resolveDuplicatePurchase(ctx context.Context, record Payment) (Payment, error) {
	_ = s.provider.CancelIntent(ctx, record.IntentID)

	if _, err := s.repo.TransitionFromPending(ctx, record.IntentID, StatusCanceled, nil, time.Now().UTC()); err != nil {
		return Payment{}, fmt.Errorf("cancel duplicate payment: %w", err)
	}
	metrics.ReconciliationsTotal.WithLabelValues("duplicate").Inc()

	updated, err := s.repo.ByIntentID(ctx, record.IntentID)
	if err != nil {
		return Payment{}, fmt.Errorf("reload payment: %w", err)
	}
	return updated, nil
}

type UserPaymentsResult struct {
	Payments        []Payment `json:"payments"`
	TotalSpentMinor int64     `json:"total_spent_minor"`
}

// UserPayments lists the user's succeeded payments with the total spent.
func (s *PaymentService) UserPayments(ctx context.Context, email string) (UserPaymentsResult, error) {
	user, err := s.accounts.UserByEmail(ctx, email)
	if err != nil {
		return UserPaymentsResult{}, fmt.Errorf("resolve payer: %w", err)
	}

	payments, err := s.repo.SucceededByUser(ctx, user.ID)
	if err != nil {
		return UserPaymentsResult{}, fmt.Errorf("list succeeded payments: %w", err)
	}

	result := UserPaymentsResult{Payments: payments}
	for _, p := range payments {
		result.TotalSpentMinor += p.AmountMinor
	}
	return result, nil
}

// SweepPending re-runs reconciliation for payments stuck in pending longer
// than minAge, covering lost webhooks. Per-intent failures do not stop the
// sweep; they are joined into the returned error.
func (s *PaymentService) SweepPending(ctx context.Context, minAge time.Duration, limit int) (int, error) {
	cutoff := time.Now().UTC().Add(-minAge)

	intentIDs, err := s.repo.PendingIntentsOlderThan(ctx, cutoff, limit)
	if err != nil {
		return 0, fmt.Errorf("list aged pending payments: %w", err)
	}

	var swept int
	var errs []error
	for _, id := range intentIDs {
		if _, err := s.Reconcile(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("reconcile %s: %w", id, err))
			continue
		}
		swept++
	}
	return swept, errors.Join(errs...)
}

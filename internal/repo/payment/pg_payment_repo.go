package payment_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursepay/internal/domain/payment"
	"coursepay/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// succeededConstraint is the partial unique index that makes "at most one
// succeeded payment per (user, course)" a structural guarantee instead of a
// query-then-insert check.
const succeededConstraint = "uq_payments_succeeded"

var paymentColumns = []string{
	"intent_id", "user_id", "course_id", "amount_minor", "currency",
	"status", "receipt_url", "metadata", "created_at", "settled_at", "updated_at",
}

// PgPaymentRepo is the main payment repository.
type PgPaymentRepo struct {
	repo
}

func NewPgPaymentRepo(pg *postgres.Postgres) payment.PaymentRepo {
	return &PgPaymentRepo{
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) Create(ctx context.Context, p payment.Payment) error {
	query, args, err := r.builder.Insert("payments").
		Columns(paymentColumns...).
		Values(p.IntentID, p.UserID, p.CourseID, p.AmountMinor, p.Currency,
			p.Status, p.ReceiptURL, p.Metadata, p.CreatedAt, p.SettledAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *repo) ByIntentID(ctx context.Context, intentID string) (payment.Payment, error) {
	query, args, err := r.builder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"intent_id": intentID}).
		ToSql()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("build select query: %w", err)
	}

	row := r.db.QueryRow(ctx, query, args...)
	p, err := parsePaymentRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payment.Payment{}, payment.ErrNotFound
		}
		return payment.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *repo) TransitionFromPending(ctx context.Context, intentID string, to payment.Status, receiptURL *string, settledAt time.Time) (bool, error) {
	query, args, err := r.builder.Update("payments").
		Set("status", to).
		Set("receipt_url", receiptURL).
		Set("settled_at", settledAt).
		Set("updated_at", settledAt).
		Where(squirrel.Eq{"intent_id": intentID, "status": payment.StatusPending}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if postgres.IsUniqueViolation(err, succeededConstraint) {
			return false, payment.ErrAlreadyPurchased
		}
		return false, fmt.Errorf("transition payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repo) HasSucceeded(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	return r.exists(ctx, squirrel.Eq{
		"user_id":   userID,
		"course_id": courseID,
		"status":    payment.StatusSucceeded,
	})
}

func (r *repo) HasSucceededPayment(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.exists(ctx, squirrel.Eq{
		"user_id": userID,
		"status":  payment.StatusSucceeded,
	})
}

func (r *repo) exists(ctx context.Context, where squirrel.Eq) (bool, error) {
	query, args, err := r.builder.Select("1").
		From("payments").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query payment existence: %w", err)
	}
	return true, nil
}

func (r *repo) SucceededByUser(ctx context.Context, userID uuid.UUID) ([]payment.Payment, error) {
	query, args, err := r.builder.Select(paymentColumns...).
		From("payments").
		Where(squirrel.Eq{"user_id": userID, "status": payment.StatusSucceeded}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	return parsePaymentRows(rows)
}

func (r *repo) PendingIntentsOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	query, args, err := r.builder.Select("intent_id").
		From("payments").
		Where(squirrel.Eq{"status": payment.StatusPending}).
		Where(squirrel.Lt{"created_at": cutoff}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pending payments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan intent id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending rows: %w", err)
	}
	return ids, nil
}

package payment_repo

import (
	"fmt"

	"coursepay/internal/domain/payment"

	"github.com/jackc/pgx/v5"
)

func parsePaymentRow(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	var rawStatus string

	err := row.Scan(&p.IntentID, &p.UserID, &p.CourseID, &p.AmountMinor, &p.Currency,
		&rawStatus, &p.ReceiptURL, &p.Metadata, &p.CreatedAt, &p.SettledAt, &p.UpdatedAt)
	if err != nil {
		return payment.Payment{}, err
	}

	status, err := payment.NewStatus(rawStatus)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("invalid status in database: %w", err)
	}
	p.Status = status

	return p, nil
}

func parsePaymentRows(rows pgx.Rows) ([]payment.Payment, error) {
	var payments []payment.Payment
	for rows.Next() {
		p, err := parsePaymentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}

	return payments, nil
}

package account

import (
	"context"

	"github.com/google/uuid"
)

type TxAccountRepo interface {
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id uuid.UUID) (User, error)

	// UpdateRole sets the role only while the stored role still equals from.
	// A lost race is not an error: the row is simply left untouched.
	UpdateRole(ctx context.Context, userID uuid.UUID, from, to Role) error

	// Enroll adds a (user, course) pair to the ledger; repeated calls are no-ops.
	Enroll(ctx context.Context, userID, courseID uuid.UUID) error
	Enrollment(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)
}

type AccountRepo interface {
	TxAccountRepo
	InTransaction(ctx context.Context, fn func(repo TxAccountRepo) error) error
}

package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PurchaseChecker reports whether a user has at least one succeeded payment.
// Implemented by the payment repository.
type PurchaseChecker interface {
	HasSucceededPayment(ctx context.Context, userID uuid.UUID) (bool, error)
}

type AccountService struct {
	repo      AccountRepo
	purchases PurchaseChecker
}

func NewAccountService(repo AccountRepo, purchases PurchaseChecker) *AccountService {
	return &AccountService{repo: repo, purchases: purchases}
}

func (s *AccountService) UserByEmail(ctx context.Context, email string) (User, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GrantCourseAccess records the enrollment and applies the promotion policy
// in one transaction. Both writes are idempotent, so concurrent grants for
// the same purchase converge on the same state.
func (s *AccountService) GrantCourseAccess(ctx context.Context, userID, courseID uuid.UUID) error {
	return s.repo.InTransaction(ctx, func(tx TxAccountRepo) error {
		if err := tx.Enroll(ctx, userID, courseID); err != nil {
			return fmt.Errorf("enroll user: %w", err)
		}
		if err := promoteIfEligible(ctx, tx, userID); err != nil {
			return fmt.Errorf("promote user: %w", err)
		}
		return nil
	})
}

// promoteIfEligible applies NextRole to the stored role. Only user -> student
// ever changes anything; the conditional update guards concurrent callers.
func promoteIfEligible(ctx context.Context, repo TxAccountRepo, userID uuid.UUID) error {
	user, err := repo.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	next := NextRole(user.Role)
	if next == user.Role {
		return nil
	}

	return repo.UpdateRole(ctx, userID, user.Role, next)
}

// SyncRole is the manual fallback: it promotes a user whose payment already
// succeeded but whose role was never updated (for example a crash between
// the payment write and the role write). It is not an independent authority
// on payment state, so without a succeeded payment it changes nothing.
func (s *AccountService) SyncRole(ctx context.Context, email string) (Role, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}

	if user.Role != RoleUser {
		return user.Role, nil
	}

	paid, err := s.purchases.HasSucceededPayment(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("check succeeded payments: %w", err)
	}
	if !paid {
		return user.Role, nil
	}

	if err := s.repo.UpdateRole(ctx, user.ID, RoleUser, RoleStudent); err != nil {
		return "", fmt.Errorf("update role: %w", err)
	}
	return RoleStudent, nil
}

// CheckEnrollment returns the ledger entry for (user, course), or nil when
// the user is not enrolled.
func (s *AccountService) CheckEnrollment(ctx context.Context, email string, courseID uuid.UUID) (*Enrollment, error) {
	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	enrollment, err := s.repo.Enrollment(ctx, user.ID, courseID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return enrollment, nil
}

package account_repo

import (
	"context"
	"errors"
	"fmt"

	"coursepay/internal/domain/account"
	"coursepay/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgAccountRepo persists users and the enrollment ledger.
type PgAccountRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgAccountRepo(pg *postgres.Postgres) account.AccountRepo {
	return &PgAccountRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgAccountRepo) InTransaction(ctx context.Context, fn func(repo account.TxAccountRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		txRepo := &repo{db: tx, builder: r.pg.Builder}
		return fn(txRepo)
	})
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var userColumns = []string{"id", "email", "name", "role", "created_at", "updated_at"}

func (r *repo) UserByEmail(ctx context.Context, email string) (account.User, error) {
	return r.userBy(ctx, squirrel.Eq{"email": email})
}

func (r *repo) UserByID(ctx context.Context, id uuid.UUID) (account.User, error) {
	return r.userBy(ctx, squirrel.Eq{"id": id})
}

func (r *repo) userBy(ctx context.Context, where squirrel.Eq) (account.User, error) {
	query, args, err := r.builder.Select(userColumns...).
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return account.User{}, fmt.Errorf("build select query: %w", err)
	}

	var u account.User
	var rawRole string
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.Name, &rawRole, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.User{}, account.ErrUserNotFound
		}
		return account.User{}, fmt.Errorf("get user: %w", err)
	}

	role, err := account.NewRole(rawRole)
	if err != nil {
		return account.User{}, fmt.Errorf("%w: %q", account.ErrInvalidRole, rawRole)
	}
	u.Role = role

	return u, nil
}

func (r *repo) UpdateRole(ctx context.Context, userID uuid.UUID, from, to account.Role) error {
	query, args, err := r.builder.Update("users").
		Set("role", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID, "role": from}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	// Zero rows affected means a concurrent caller already changed the role;
	// the conditional write keeps the transition monotonic either way.
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

func (r *repo) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	query, args, err := r.builder.Insert("enrollments").
		Columns("user_id", "course_id", "enrolled_at").
		Values(userID, courseID, squirrel.Expr("NOW()")).
		Suffix("ON CONFLICT (user_id, course_id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("enroll user: %w", err)
	}
	return nil
}

func (r *repo) Enrollment(ctx context.Context, userID, courseID uuid.UUID) (*account.Enrollment, error) {
	query, args, err := r.builder.Select("user_id", "course_id", "enrolled_at").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	var e account.Enrollment
	err = r.db.QueryRow(ctx, query, args...).Scan(&e.UserID, &e.CourseID, &e.EnrolledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return &e, nil
}

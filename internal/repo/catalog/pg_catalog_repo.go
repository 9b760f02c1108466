package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"coursepay/internal/domain/catalog"
	"coursepay/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgCatalogRepo is a read-only view over the catalog's courses table.
type PgCatalogRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgCatalogRepo(pg *postgres.Postgres) catalog.CatalogRepo {
	return &PgCatalogRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgCatalogRepo) CourseByID(ctx context.Context, id uuid.UUID) (catalog.Course, error) {
	query, args, err := r.builder.Select("id", "title", "price_minor", "currency", "created_at").
		From("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return catalog.Course{}, fmt.Errorf("build select query: %w", err)
	}

	var c catalog.Course
	err = r.db.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.Title, &c.PriceMinor, &c.Currency, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Course{}, catalog.ErrCourseNotFound
		}
		return catalog.Course{}, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

package health

import (
	"context"

	"coursepay/pkg/postgres"
)

// PostgresChecker checks PostgreSQL connectivity.
type PostgresChecker struct {
	pg *postgres.Postgres
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pg *postgres.Postgres) *PostgresChecker {
	return &PostgresChecker{pg: pg}
}

// Name returns "postgres".
func (c *PostgresChecker) Name() string {
	return "postgres"
}

// Check pings the PostgreSQL database.
func (c *PostgresChecker) Check(ctx context.Context) Result {
	if err := c.pg.Pool.Ping(ctx); err != nil {
		return Result{Status: StatusDown, Message: err.Error()}
	}
	return Result{Status: StatusUp}
}

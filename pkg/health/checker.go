// Package health backs the service's liveness and readiness probes. Readiness
// aggregates the dependencies payment processing cannot run without: Postgres
// always, Kafka when webhook processing is asynchronous.
package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single readiness evaluation.
const DefaultTimeout = 5 * time.Second

// Status represents the health status of a component.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Result is the outcome of a single health check.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker reports the health of one dependency.
type Checker interface {
	// Name identifies the dependency in the readiness response.
	Name() string
	Check(ctx context.Context) Result
}

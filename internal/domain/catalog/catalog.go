// Package catalog exposes the minimal read surface of the course catalog
// that purchase fulfillment needs. Catalog management itself lives elsewhere.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCourseNotFound = errors.New("course not found")

type Course struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	PriceMinor int64     `json:"price_minor"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

type CatalogRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (Course, error)
}

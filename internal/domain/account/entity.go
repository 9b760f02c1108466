package account

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Role string

const (
	RoleUser       Role = "user"
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

var AvailableRoles = []Role{RoleUser, RoleStudent, RoleInstructor, RoleAdmin}

func NewRole(raw string) (Role, error) {
	if slices.Contains(AvailableRoles, Role(raw)) {
		return Role(raw), nil
	}
	return "", errors.New("invalid account role")
}

// NextRole is the payment-driven role transition policy. A successful
// purchase promotes a plain user to student and never touches any other
// role, so repeated application is a no-op.
func NextRole(current Role) Role {
	if current == RoleUser {
		return RoleStudent
	}
	return current
}

// Enrollment is a (user, course) membership in the enrollment ledger.
// Entries are created once on the first successful payment for the pair
// and are never removed here.
type Enrollment struct {
	UserID     uuid.UUID `json:"user_id"`
	CourseID   uuid.UUID `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

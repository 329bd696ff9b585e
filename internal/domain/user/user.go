package user

import (
	"errors"
	"strings"
	"time"

	"github.com/noteshub/noteshub/internal/domain/note"
)

const (
	MinEmailLen = 3
	MaxEmailLen = 255
)

type User struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	HashedPassword *string    `json:"-"` // never expose hash in JSON
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("user not found")

// if the email already belongs to another row.
var ErrEmailTaken = errors.New("email already in use")

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,min=3,max=255"`
	Password string `json:"password" binding:"omitempty,max=255"`
}

// Normalize trims the email and re-checks the length bounds; binding tags
// run before the trim, so "  a " would otherwise sneak through as "a".
func (r *CreateUserRequest) Normalize() []note.FieldViolation {
	r.Email = strings.TrimSpace(r.Email)

	var violations []note.FieldViolation

	if n := len(r.Email); n < MinEmailLen || n > MaxEmailLen {
		violations = append(violations, note.FieldViolation{
			Field:   "email",
			Rule:    "length",
			Param:   "3-255",
			Message: "must be between 3 and 255 characters after trimming",
		})
	}

	return violations
}

// NewFromCreateRequest builds the draft row; the store assigns the ID.
func NewFromCreateRequest(email string, hashedPassword *string) User {
	now := time.Now().UTC()

	return User{
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      &now,
		UpdatedAt:      &now,
	}
}

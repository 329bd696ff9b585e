package note

import (
	"errors"
	"time"
)

const (
	MaxTitleLen = 200
	MaxBodyLen  = 2000

	DefaultLimit = 20
	MaxLimit     = 100
)

// Record carries the persistence metadata shared by all entities. Timestamps
// are pointers because legacy rows may hold NULL.
type Record struct {
	ID        int64      `json:"id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type Note struct {
	Record
	Title  string  `json:"title"`
	Body   *string `json:"body"`
	UserID *int64  `json:"user_id"`
}

// with pointers if optional, it will be nil
type ListNotesFilter struct {
	Query  *string
	UserID *int64
	Limit  int
	Offset int
}

var ErrNotFound = errors.New("note not found")

// ErrOwnerNotFound surfaces a user_id that references no existing user.
var ErrOwnerNotFound = errors.New("note owner not found")

type CreateNoteRequest struct {
	Title  string  `json:"title" binding:"required,max=200"`
	Body   *string `json:"body" binding:"omitempty,max=2000"`
	UserID *int64  `json:"user_id" binding:"omitempty,min=1"`
}

// Normalize trims free text and reports rule violations binding tags cannot
// express (title made of pure whitespace still counts as empty).
func (r *CreateNoteRequest) Normalize() []FieldViolation {
	r.Title = trim(r.Title)

	if r.Body != nil {
		b := trim(*r.Body)
		r.Body = &b
	}

	var violations []FieldViolation

	if r.Title == "" {
		violations = append(violations, FieldViolation{
			Field:   "title",
			Rule:    "required",
			Message: "must not be empty after trimming",
		})
	}

	return violations
}

type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

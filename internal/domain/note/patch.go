package note

import (
	"encoding/json"
	"strconv"
)

// UpdateNoteRequest is a partial-update payload. A field that is present but
// null means "clear it"; a field that is absent means "leave it alone", so
// plain pointer fields are not enough and presence is tracked explicitly.
type UpdateNoteRequest struct {
	Title  *string
	Body   *string
	UserID *int64

	HasTitle  bool
	HasBody   bool
	HasUserID bool
}

func (r *UpdateNoteRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["title"]; ok {
		r.HasTitle = true
		if err := json.Unmarshal(v, &r.Title); err != nil {
			return err
		}
	}

	if v, ok := raw["body"]; ok {
		r.HasBody = true
		if err := json.Unmarshal(v, &r.Body); err != nil {
			return err
		}
	}

	if v, ok := raw["user_id"]; ok {
		r.HasUserID = true
		if err := json.Unmarshal(v, &r.UserID); err != nil {
			return err
		}
	}

	return nil
}

// Empty reports whether the payload carries no fields at all.
func (r *UpdateNoteRequest) Empty() bool {
	return !r.HasTitle && !r.HasBody && !r.HasUserID
}

// Normalize trims supplied text fields and checks every rule, collecting all
// violations rather than stopping at the first.
func (r *UpdateNoteRequest) Normalize() []FieldViolation {
	var violations []FieldViolation

	if r.HasTitle {
		if r.Title == nil {
			violations = append(violations, FieldViolation{
				Field:   "title",
				Rule:    "required",
				Message: "must not be null",
			})
		} else {
			t := trim(*r.Title)
			r.Title = &t

			if t == "" {
				violations = append(violations, FieldViolation{
					Field:   "title",
					Rule:    "required",
					Message: "must not be empty after trimming",
				})
			} else if len(t) > MaxTitleLen {
				violations = append(violations, FieldViolation{
					Field:   "title",
					Rule:    "max",
					Param:   strconv.Itoa(MaxTitleLen),
					Message: "must be at most " + strconv.Itoa(MaxTitleLen),
				})
			}
		}
	}

	if r.HasBody && r.Body != nil {
		b := trim(*r.Body)
		r.Body = &b

		if len(b) > MaxBodyLen {
			violations = append(violations, FieldViolation{
				Field:   "body",
				Rule:    "max",
				Param:   strconv.Itoa(MaxBodyLen),
				Message: "must be at most " + strconv.Itoa(MaxBodyLen),
			})
		}
	}

	if r.HasUserID && r.UserID != nil && *r.UserID < 1 {
		violations = append(violations, FieldViolation{
			Field:   "user_id",
			Rule:    "min",
			Param:   "1",
			Message: "must be at least 1",
		})
	}

	return violations
}

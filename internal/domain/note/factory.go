package note

import (
	"strings"
	"time"
)

// NewFromCreateRequest builds the entity draft the store will persist.
// The ID is left zero; the store assigns it on insert.
func NewFromCreateRequest(req CreateNoteRequest) Note {
	now := time.Now().UTC()

	return Note{
		Record: Record{
			CreatedAt: &now,
			UpdatedAt: &now,
		},
		Title:  req.Title,
		Body:   req.Body,
		UserID: req.UserID,
	}
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noteshub/noteshub/internal/config"
	"github.com/noteshub/noteshub/internal/domain/note"
	"github.com/noteshub/noteshub/internal/repo/postgres"
)

type NotesStore interface {
	Create(ctx context.Context, req note.CreateNoteRequest) (note.Note, error)
	GetByID(ctx context.Context, id int64) (note.Note, error)
	List(ctx context.Context, filter note.ListNotesFilter) ([]note.Note, int, error)
	Update(ctx context.Context, id int64, req note.UpdateNoteRequest) (note.Note, error)
	Delete(ctx context.Context, id int64) error
}

type NotesHandler struct {
	repo NotesStore
}

func NewNotesHandler(repo NotesStore) *NotesHandler {
	return &NotesHandler{repo: repo}
}

func (h *NotesHandler) CreateNote(ctx *gin.Context) {
	var req note.CreateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := req.Normalize(); len(violations) > 0 {
		RespondUnprocessable(ctx, "Invalid request body", violationDetails(violations))
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	n, err := h.repo.Create(cctx, req)

	if err != nil {
		switch {
		case errors.Is(err, note.ErrOwnerNotFound):
			RespondConflict(ctx, "referential_integrity", "user_id does not reference an existing user.")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not create note")
		}
		return
	}

	ctx.JSON(http.StatusCreated, n)
}

func (h *NotesHandler) ListNotes(ctx *gin.Context) {
	filter, violations := parseListFilter(ctx)

	if len(violations) > 0 {
		RespondUnprocessable(ctx, "Invalid query parameters", violationDetails(violations))
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	items, total, err := h.repo.List(cctx, filter)

	if err != nil {
		if postgres.IsUnavailable(err) {
			RespondUnavailable(ctx, "Store is unreachable")
			return
		}

		RespondInternal(ctx, "Could not list notes")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  total,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (h *NotesHandler) GetNoteByID(ctx *gin.Context) {
	id, ok := noteIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	n, err := h.repo.GetByID(cctx, id)

	if err != nil {
		switch {
		case errors.Is(err, note.ErrNotFound):
			RespondNotFound(ctx, "Note not found")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not fetch note")
		}
		return
	}

	RespondNoteWithETag(ctx, n)
}

func (h *NotesHandler) UpdateNote(ctx *gin.Context) {
	id, ok := noteIDParam(ctx)

	if !ok {
		return
	}

	var req note.UpdateNoteRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := req.Normalize(); len(violations) > 0 {
		RespondUnprocessable(ctx, "Invalid request body", violationDetails(violations))
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	// a patch with no fields changes nothing; serve the current row
	// without touching updated_at
	if req.Empty() {
		n, err := h.repo.GetByID(cctx, id)

		if err != nil {
			switch {
			case errors.Is(err, note.ErrNotFound):
				RespondNotFound(ctx, "Note not found")
			case postgres.IsUnavailable(err):
				RespondUnavailable(ctx, "Store is unreachable")
			default:
				RespondInternal(ctx, "Could not update note")
			}
			return
		}

		ctx.JSON(http.StatusOK, n)
		return
	}

	n, err := h.repo.Update(cctx, id, req)

	if err != nil {
		switch {
		case errors.Is(err, note.ErrNotFound):
			RespondNotFound(ctx, "Note not found")
		case errors.Is(err, note.ErrOwnerNotFound):
			RespondConflict(ctx, "referential_integrity", "user_id does not reference an existing user.")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not update note")
		}
		return
	}

	ctx.JSON(http.StatusOK, n)
}

func (h *NotesHandler) DeleteNote(ctx *gin.Context) {
	id, ok := noteIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		switch {
		case errors.Is(err, note.ErrNotFound):
			RespondNotFound(ctx, "Note not found")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not delete note")
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// noteIDParam parses the path id; a malformed id is a validation failure,
// not a 404.
func noteIDParam(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || id < 1 {
		RespondUnprocessable(ctx, "Invalid note id", violationDetails([]note.FieldViolation{
			{Field: "id", Rule: "numeric", Message: "must be a positive integer"},
		}))
		return 0, false
	}

	return id, true
}

func parseListFilter(ctx *gin.Context) (note.ListNotesFilter, []note.FieldViolation) {
	filter := note.ListNotesFilter{
		Limit:  note.DefaultLimit,
		Offset: 0,
	}

	var violations []note.FieldViolation

	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		filter.Query = &q
	}

	if raw := ctx.Query("user_id"); raw != "" {
		uid, err := strconv.ParseInt(raw, 10, 64)

		if err != nil || uid < 1 {
			violations = append(violations, note.FieldViolation{
				Field: "user_id", Rule: "numeric", Message: "must be a positive integer",
			})
		} else {
			filter.UserID = &uid
		}
	}

	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)

		if err != nil || limit < 1 || limit > note.MaxLimit {
			violations = append(violations, note.FieldViolation{
				Field: "limit", Rule: "range", Param: "1-" + strconv.Itoa(note.MaxLimit),
				Message: "must be between 1 and " + strconv.Itoa(note.MaxLimit),
			})
		} else {
			filter.Limit = limit
		}
	}

	if raw := ctx.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)

		if err != nil || offset < 0 {
			violations = append(violations, note.FieldViolation{
				Field: "offset", Rule: "min", Param: "0", Message: "must be at least 0",
			})
		} else {
			filter.Offset = offset
		}
	}

	return filter, violations
}

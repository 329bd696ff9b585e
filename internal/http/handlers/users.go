package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noteshub/noteshub/internal/config"
	"github.com/noteshub/noteshub/internal/domain/note"
	"github.com/noteshub/noteshub/internal/domain/user"
	"github.com/noteshub/noteshub/internal/repo/postgres"
	"github.com/noteshub/noteshub/internal/security"
)

type UsersStore interface {
	Create(ctx context.Context, email string, hashedPassword *string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Delete(ctx context.Context, id int64) error
}

type UsersHandler struct {
	repo UsersStore
}

func NewUsersHandler(repo UsersStore) *UsersHandler {
	return &UsersHandler{repo: repo}
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := req.Normalize(); len(violations) > 0 {
		RespondUnprocessable(ctx, "Invalid request body", violationDetails(violations))
		return
	}

	var hash *string

	if req.Password != "" {
		hashed, err := security.HashPassword(req.Password)

		if err != nil {
			RespondInternal(ctx, "Could not create user")
			return
		}

		hash = &hashed
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	u, err := h.repo.Create(cctx, req.Email, hash)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			RespondConflict(ctx, "conflict", "Email is already in use.")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not create user")
		}
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	users, err := h.repo.List(cctx)

	if err != nil {
		if postgres.IsUnavailable(err) {
			RespondUnavailable(ctx, "Store is unreachable")
			return
		}

		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id, ok := userIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	u, err := h.repo.GetByID(cctx, id)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not fetch user")
		}
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// DeleteUser removes the user; the store cascades to its notes.
func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case postgres.IsUnavailable(err):
			RespondUnavailable(ctx, "Store is unreachable")
		default:
			RespondInternal(ctx, "Could not delete user")
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

func userIDParam(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || id < 1 {
		RespondUnprocessable(ctx, "Invalid user id", violationDetails([]note.FieldViolation{
			{Field: "id", Rule: "numeric", Message: "must be a positive integer"},
		}))
		return 0, false
	}

	return id, true
}

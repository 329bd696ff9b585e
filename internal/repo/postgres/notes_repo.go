package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noteshub/noteshub/internal/domain/note"
	"github.com/noteshub/noteshub/internal/observability"
)

type NotesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewNotesRepo(pool *pgxpool.Pool, prom *observability.Prom) *NotesRepo {
	return &NotesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *NotesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *NotesRepo) Create(ctx context.Context, req note.CreateNoteRequest) (note.Note, error) {
	n := note.NewFromCreateRequest(req)

	err := r.observe("notes.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO notes (title, body, user_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			n.Title, n.Body, n.UserID, n.CreatedAt, n.UpdatedAt,
		).Scan(&n.ID)
	})

	if err != nil {
		if IsForeignKeyViolation(err) {
			return note.Note{}, note.ErrOwnerNotFound
		}
		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) GetByID(ctx context.Context, id int64) (note.Note, error) {
	var n note.Note

	err := r.observe("notes.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, title, body, user_id, created_at, updated_at
			 FROM notes
			 WHERE id = $1`,
			id,
		).Scan(&n.ID, &n.Title, &n.Body, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, note.ErrNotFound
		}

		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) List(ctx context.Context, filter note.ListNotesFilter) ([]note.Note, int, error) {
	baseQuery :=
		`SELECT id,
		title,
		body,
		user_id,
		created_at,
		updated_at,
		COUNT(*) OVER() AS total
	FROM notes
	`

	var conds []string
	var args []interface{}

	argsPosition := 1

	// substring search across title and body, case-insensitive
	if filter.Query != nil {
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", argsPosition, argsPosition))
		args = append(args, "%"+escapeLike(*filter.Query)+"%")
		argsPosition++
	}

	if filter.UserID != nil {
		conds = append(conds, fmt.Sprintf("user_id = $%d", argsPosition))
		args = append(args, *filter.UserID)
		argsPosition++
	}

	query := baseQuery

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// newest first; legacy rows without created_at sink to the end
	query += fmt.Sprintf(" ORDER BY created_at DESC NULLS LAST, id DESC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	args = append(args, filter.Limit, filter.Offset)

	var rows pgx.Rows
	var err error

	err = r.observe("notes.list", func() error {
		rows, err = r.pool.Query(ctx, query, args...)
		return err
	})

	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	output := make([]note.Note, 0, filter.Limit)
	total := 0

	for rows.Next() {
		var n note.Note
		var t int

		err = rows.Scan(&n.ID, &n.Title, &n.Body, &n.UserID, &n.CreatedAt, &n.UpdatedAt, &t)

		if err != nil {
			return nil, 0, err
		}

		total = t
		output = append(output, n)
	}

	err = rows.Err()

	if err != nil {
		return nil, 0, err
	}

	// an offset past the last row yields no window rows; count separately so
	// callers still learn the real total
	if len(output) == 0 {
		total, err = r.Count(ctx, filter)

		if err != nil {
			return nil, 0, err
		}
	}

	return output, total, nil
}

func (r *NotesRepo) Count(ctx context.Context, filter note.ListNotesFilter) (int, error) {
	query := `SELECT COUNT(*) FROM notes`

	var conds []string
	var args []interface{}

	argsPosition := 1

	if filter.Query != nil {
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR body ILIKE $%d)", argsPosition, argsPosition))
		args = append(args, "%"+escapeLike(*filter.Query)+"%")
		argsPosition++
	}

	if filter.UserID != nil {
		conds = append(conds, fmt.Sprintf("user_id = $%d", argsPosition))
		args = append(args, *filter.UserID)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var total int

	err := r.observe("notes.count", func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(&total)
	})

	return total, err
}

func (r *NotesRepo) Update(ctx context.Context, id int64, req note.UpdateNoteRequest) (note.Note, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	argsPosition := 2

	if req.HasTitle {
		sets = append(sets, fmt.Sprintf("title = $%d", argsPosition))
		args = append(args, req.Title)
		argsPosition++
	}

	if req.HasBody {
		sets = append(sets, fmt.Sprintf("body = $%d", argsPosition))
		args = append(args, req.Body)
		argsPosition++
	}

	if req.HasUserID {
		sets = append(sets, fmt.Sprintf("user_id = $%d", argsPosition))
		args = append(args, req.UserID)
	}

	query := `UPDATE notes
		SET ` + strings.Join(sets, ", ") + `
	WHERE id = $1
	RETURNING id, title, body, user_id, created_at, updated_at`

	var n note.Note

	err := r.observe("notes.update", func() error {
		return r.pool.QueryRow(ctx, query, args...).Scan(
			&n.ID,
			&n.Title,
			&n.Body,
			&n.UserID,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return note.Note{}, note.ErrNotFound
		}

		if IsForeignKeyViolation(err) {
			return note.Note{}, note.ErrOwnerNotFound
		}

		return note.Note{}, err
	}

	return n, nil
}

func (r *NotesRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe("notes.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return note.ErrNotFound
	}

	return nil
}

// escapeLike neutralizes LIKE wildcards inside a user-supplied query term.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

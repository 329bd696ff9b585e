package memory

import (
	"context"
	"time"

	"github.com/noteshub/noteshub/internal/domain/note"
)

type NotesRepo struct {
	s *Store
}

func (r *NotesRepo) Create(ctx context.Context, req note.CreateNoteRequest) (note.Note, error) {
	n := note.NewFromCreateRequest(req)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if n.UserID != nil {
		if _, ok := r.s.users[*n.UserID]; !ok {
			return note.Note{}, note.ErrOwnerNotFound
		}
	}

	r.s.nextNoteID++
	n.ID = r.s.nextNoteID
	r.s.notes[n.ID] = n

	return n, nil
}

func (r *NotesRepo) GetByID(ctx context.Context, id int64) (note.Note, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notes[id]

	if !ok {
		return note.Note{}, note.ErrNotFound
	}

	return n, nil
}

func (r *NotesRepo) List(ctx context.Context, filter note.ListNotesFilter) ([]note.Note, int, error) {
	r.s.mu.RLock()

	matched := make([]note.Note, 0, len(r.s.notes))

	for _, n := range r.s.notes {
		if filter.Query != nil && !matchesQuery(n, *filter.Query) {
			continue
		}

		if filter.UserID != nil && (n.UserID == nil || *n.UserID != *filter.UserID) {
			continue
		}

		matched = append(matched, n)
	}

	r.s.mu.RUnlock()

	sortNotes(matched)

	total := len(matched)

	if filter.Offset >= total {
		return []note.Note{}, total, nil
	}

	end := filter.Offset + filter.Limit

	if end > total {
		end = total
	}

	return matched[filter.Offset:end], total, nil
}

func (r *NotesRepo) Update(ctx context.Context, id int64, req note.UpdateNoteRequest) (note.Note, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notes[id]

	if !ok {
		return note.Note{}, note.ErrNotFound
	}

	if req.HasUserID && req.UserID != nil {
		if _, exists := r.s.users[*req.UserID]; !exists {
			return note.Note{}, note.ErrOwnerNotFound
		}
	}

	if req.HasTitle && req.Title != nil {
		n.Title = *req.Title
	}

	if req.HasBody {
		n.Body = req.Body
	}

	if req.HasUserID {
		n.UserID = req.UserID
	}

	// keep the refresh strictly monotonic even on coarse clocks
	updated := time.Now().UTC()

	if n.UpdatedAt != nil && !updated.After(*n.UpdatedAt) {
		updated = n.UpdatedAt.Add(time.Nanosecond)
	}

	n.UpdatedAt = &updated
	r.s.notes[id] = n

	return n, nil
}

func (r *NotesRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notes[id]; !ok {
		return note.ErrNotFound
	}

	delete(r.s.notes, id)

	return nil
}

package memory

import (
	"context"
	"sort"

	"github.com/noteshub/noteshub/internal/domain/user"
)

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) Create(ctx context.Context, email string, hashedPassword *string) (user.User, error) {
	u := user.NewFromCreateRequest(email, hashedPassword)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	r.s.nextUserID++
	u.ID = r.s.nextUserID
	r.s.users[u.ID] = u

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.s.mu.RLock()

	users := make([]user.User, 0, len(r.s.users))

	for _, u := range r.s.users {
		users = append(users, u)
	}

	r.s.mu.RUnlock()

	// insertion order == primary key order
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// Delete removes the user and cascades to every note it owns.
func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrNotFound
	}

	delete(r.s.users, id)

	for noteID, n := range r.s.notes {
		if n.UserID != nil && *n.UserID == id {
			delete(r.s.notes, noteID)
		}
	}

	return nil
}

package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noteshub/noteshub/internal/domain/note"
	"github.com/noteshub/noteshub/internal/domain/user"
)

// Store keeps both tables behind one lock so the cascade on user delete is
// atomic, the same way a single database would behave.
type Store struct {
	mu         sync.RWMutex
	notes      map[int64]note.Note
	users      map[int64]user.User
	nextNoteID int64
	nextUserID int64
}

func NewStore() *Store {
	return &Store{
		notes: make(map[int64]note.Note),
		users: make(map[int64]user.User),
	}
}

func (s *Store) Notes() *NotesRepo {
	return &NotesRepo{s: s}
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

func now() *time.Time {
	t := time.Now().UTC()
	return &t
}

func matchesQuery(n note.Note, q string) bool {
	q = strings.ToLower(q)

	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}

	return n.Body != nil && strings.Contains(strings.ToLower(*n.Body), q)
}

// newest first, rows without created_at last, id breaks ties
func sortNotes(items []note.Note) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]

		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return a.ID > b.ID
		case a.CreatedAt == nil:
			return false
		case b.CreatedAt == nil:
			return true
		case a.CreatedAt.Equal(*b.CreatedAt):
			return a.ID > b.ID
		default:
			return a.CreatedAt.After(*b.CreatedAt)
		}
	})
}

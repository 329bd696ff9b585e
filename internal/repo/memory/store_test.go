package memory

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteshub/noteshub/internal/domain/note"
	"github.com/noteshub/noteshub/internal/domain/user"
)

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func TestNotesCreateThenGet(t *testing.T) {
	repo := NewStore().Notes()
	ctx := context.Background()

	created, err := repo.Create(ctx, note.CreateNoteRequest{
		Title: "Groceries",
		Body:  strPtr("milk, eggs"),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotNil(t, created.CreatedAt)
	require.NotNil(t, created.UpdatedAt)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Groceries", got.Title)
	require.NotNil(t, got.Body)
	assert.Equal(t, "milk, eggs", *got.Body)
	assert.Nil(t, got.UserID)
}

func TestNotesCreateRejectsUnknownOwner(t *testing.T) {
	repo := NewStore().Notes()

	_, err := repo.Create(context.Background(), note.CreateNoteRequest{
		Title:  "Orphan",
		UserID: int64Ptr(99),
	})

	assert.ErrorIs(t, err, note.ErrOwnerNotFound)
}

func TestNotesSearchIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	repo := s.Notes()
	ctx := context.Background()

	for _, seed := range []struct{ title, body string }{
		{"Hello world", ""},
		{"reminder", "say hello to Ann"},
		{"bye", "nothing here"},
	} {
		var body *string
		if seed.body != "" {
			body = strPtr(seed.body)
		}

		_, err := repo.Create(ctx, note.CreateNoteRequest{Title: seed.title, Body: body})
		require.NoError(t, err)
	}

	q := "HELLO"
	items, total, err := repo.List(ctx, note.ListNotesFilter{Query: &q, Limit: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, items, 2)

	for _, n := range items {
		assert.NotEqual(t, "bye", n.Title)
	}
}

func TestNotesListPagination(t *testing.T) {
	repo := NewStore().Notes()
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		_, err := repo.Create(ctx, note.CreateNoteRequest{Title: "note " + strconv.Itoa(i)})
		require.NoError(t, err)
	}

	items, total, err := repo.List(ctx, note.ListNotesFilter{Limit: 10, Offset: 20})
	require.NoError(t, err)

	assert.Equal(t, 25, total)
	assert.Len(t, items, 5)

	// a window past the end still reports the real total
	items, total, err = repo.List(ctx, note.ListNotesFilter{Limit: 10, Offset: 100})
	require.NoError(t, err)

	assert.Equal(t, 25, total)
	assert.Empty(t, items)
}

func TestNotesListOrdering(t *testing.T) {
	repo := NewStore().Notes()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, note.CreateNoteRequest{Title: title})
		require.NoError(t, err)
	}

	items, _, err := repo.List(ctx, note.ListNotesFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 3)

	// newest first, id breaking created_at ties
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "first", items[2].Title)
}

func TestNotesListFilterByOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	owner, err := s.Users().Create(ctx, "owner@example.com", nil)
	require.NoError(t, err)

	_, err = s.Notes().Create(ctx, note.CreateNoteRequest{Title: "mine", UserID: &owner.ID})
	require.NoError(t, err)

	_, err = s.Notes().Create(ctx, note.CreateNoteRequest{Title: "nobody's"})
	require.NoError(t, err)

	items, total, err := s.Notes().List(ctx, note.ListNotesFilter{UserID: &owner.ID, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "mine", items[0].Title)
}

func TestNotesPartialUpdate(t *testing.T) {
	repo := NewStore().Notes()
	ctx := context.Background()

	created, err := repo.Create(ctx, note.CreateNoteRequest{
		Title: "keep me",
		Body:  strPtr("old body"),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, note.UpdateNoteRequest{
		Body:    strPtr("new body"),
		HasBody: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "keep me", updated.Title)
	require.NotNil(t, updated.Body)
	assert.Equal(t, "new body", *updated.Body)

	require.NotNil(t, updated.UpdatedAt)
	require.NotNil(t, created.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(*created.UpdatedAt), "updated_at must move forward")
}

func TestNotesUpdateClearsBodyAndOwner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	owner, err := s.Users().Create(ctx, "owner@example.com", nil)
	require.NoError(t, err)

	created, err := s.Notes().Create(ctx, note.CreateNoteRequest{
		Title:  "attached",
		Body:   strPtr("something"),
		UserID: &owner.ID,
	})
	require.NoError(t, err)

	updated, err := s.Notes().Update(ctx, created.ID, note.UpdateNoteRequest{
		HasBody:   true,
		HasUserID: true,
	})
	require.NoError(t, err)

	assert.Nil(t, updated.Body)
	assert.Nil(t, updated.UserID)
}

func TestNotesUpdateRejectsUnknownOwner(t *testing.T) {
	repo := NewStore().Notes()
	ctx := context.Background()

	created, err := repo.Create(ctx, note.CreateNoteRequest{Title: "loner"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, note.UpdateNoteRequest{
		UserID:    int64Ptr(404),
		HasUserID: true,
	})

	assert.ErrorIs(t, err, note.ErrOwnerNotFound)
}

func TestNotesUpdateMissing(t *testing.T) {
	repo := NewStore().Notes()

	_, err := repo.Update(context.Background(), 123, note.UpdateNoteRequest{
		Title:    strPtr("ghost"),
		HasTitle: true,
	})

	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestNotesDeleteIsIdempotentlyGone(t *testing.T) {
	repo := NewStore().Notes()
	ctx := context.Background()

	created, err := repo.Create(ctx, note.CreateNoteRequest{Title: "doomed"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)

	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)
}

func TestUsersCreateAndList(t *testing.T) {
	repo := NewStore().Users()
	ctx := context.Background()

	first, err := repo.Create(ctx, "a@example.com", nil)
	require.NoError(t, err)

	second, err := repo.Create(ctx, "b@example.com", strPtr("$2a$fakehash"))
	require.NoError(t, err)

	require.Less(t, first.ID, second.ID)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, "b@example.com", users[1].Email)
}

func TestUsersDuplicateEmail(t *testing.T) {
	repo := NewStore().Users()
	ctx := context.Background()

	_, err := repo.Create(ctx, "dup@example.com", nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "dup@example.com", nil)
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestUsersDeleteCascadesToNotes(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	owner, err := s.Users().Create(ctx, "owner@example.com", nil)
	require.NoError(t, err)

	owned, err := s.Notes().Create(ctx, note.CreateNoteRequest{Title: "owned", UserID: &owner.ID})
	require.NoError(t, err)

	loose, err := s.Notes().Create(ctx, note.CreateNoteRequest{Title: "loose"})
	require.NoError(t, err)

	require.NoError(t, s.Users().Delete(ctx, owner.ID))

	_, err = s.Users().GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = s.Notes().GetByID(ctx, owned.ID)
	assert.ErrorIs(t, err, note.ErrNotFound)

	// unowned notes survive
	kept, err := s.Notes().GetByID(ctx, loose.ID)
	require.NoError(t, err)
	assert.Equal(t, "loose", kept.Title)
}

func TestUsersDeleteMissing(t *testing.T) {
	repo := NewStore().Users()

	err := repo.Delete(context.Background(), 77)
	require.Error(t, err)
	assert.True(t, errors.Is(err, user.ErrNotFound))
}

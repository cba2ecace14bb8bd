package note

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/server/service/invalidator"
	"github.com/usefundoo/fundoo/store"
	"github.com/usefundoo/fundoo/store/cache"
	storetest "github.com/usefundoo/fundoo/store/test"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	ts, _ := storetest.NewFakeStore()
	cacheStore := cache.NewMemoryStore(cache.MemoryConfig{CleanupInterval: time.Minute})
	t.Cleanup(cacheStore.Close)
	return NewService(ts, cacheStore, invalidator.New(cacheStore)), ts
}

func seedUser(t *testing.T, ts *store.Store, email string) *store.User {
	t.Helper()
	user, err := ts.CreateUser(context.Background(), &store.User{
		UID: email, FirstName: "Test", LastName: "User", Email: email, PasswordHash: "x",
	})
	require.NoError(t, err)
	return user
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "groceries", Description: "milk"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.UID)

	got, err := svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "groceries", got.Title)
	assert.Equal(t, "milk", got.Description)
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	_, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{})
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeInvalidArgument))
}

func TestGetIsCached(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "original"})
	require.NoError(t, err)

	// Warm the cache, then change the row underneath the service.
	_, err = svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	title := "changed underneath"
	require.NoError(t, ts.UpdateNote(ctx, &store.UpdateNote{ID: created.ID, Title: &title}))

	got, err := svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
}

func TestMissingNoteIsNotCached(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	_, err := svc.Get(ctx, owner.ID, 999)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeNotFound))

	// Once the note exists the read must see it; a cached miss would hide it.
	created, err := ts.CreateNote(ctx, &store.Note{UID: "n", CreatorID: owner.ID, Title: "late"})
	require.NoError(t, err)
	got, err := svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "late", got.Title)
}

func TestUpdateEvictsDetailAndLists(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "before"})
	require.NoError(t, err)

	// Warm both the detail key and the unfiltered list key.
	_, err = svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	_, err = svc.List(ctx, owner.ID, nil, nil)
	require.NoError(t, err)

	title := "after"
	updated, err := svc.Update(ctx, owner.ID, created.ID, &UpdateNoteRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)

	got, err := svc.Get(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)

	list, err := svc.List(ctx, owner.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "after", list[0].Title)
}

func TestListFilterCombinations(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	_, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "active"})
	require.NoError(t, err)
	archived, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "archived"})
	require.NoError(t, err)
	trashed, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "trashed"})
	require.NoError(t, err)

	_, err = svc.SetArchived(ctx, owner.ID, archived.ID, true)
	require.NoError(t, err)
	_, err = svc.Trash(ctx, owner.ID, trashed.ID)
	require.NoError(t, err)

	tr, fa := true, false
	for _, tc := range []struct {
		name     string
		archived *bool
		trashed  *bool
		want     []string
	}{
		{"active", &fa, &fa, []string{"active"}},
		{"archived", &tr, &fa, []string{"archived"}},
		{"trash", &fa, &tr, []string{"trashed"}},
		{"all", nil, nil, []string{"trashed", "archived", "active"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			list, err := svc.List(ctx, owner.ID, tc.archived, tc.trashed)
			require.NoError(t, err)
			titles := make([]string, 0, len(list))
			for _, n := range list {
				titles = append(titles, n.Title)
			}
			assert.ElementsMatch(t, tc.want, titles)
		})
	}
}

func TestSharedNoteVisibility(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")
	friend := seedUser(t, ts, "friend@example.com")
	stranger := seedUser(t, ts, "stranger@example.com")

	created, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "shared"})
	require.NoError(t, err)
	_, err = ts.CreateCollaborator(ctx, &store.Collaborator{NoteID: created.ID, UserID: friend.ID, Email: friend.Email})
	require.NoError(t, err)

	got, err := svc.Get(ctx, friend.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "shared", got.Title)

	_, err = svc.Get(ctx, stranger.ID, created.ID)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeNotFound))

	// Read access does not grant write access.
	title := "hijacked"
	_, err = svc.Update(ctx, friend.ID, created.ID, &UpdateNoteRequest{Title: &title})
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeNotFound))
}

func TestTrashRestoreDelete(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "doomed"})
	require.NoError(t, err)

	// Restore and permanent delete both require the note to be in the trash.
	_, err = svc.Restore(ctx, owner.ID, created.ID)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeFailedPrecondition))
	err = svc.Delete(ctx, owner.ID, created.ID)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeFailedPrecondition))

	trashed, err := svc.Trash(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.True(t, trashed.Trashed)

	restored, err := svc.Restore(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.False(t, restored.Trashed)

	_, err = svc.Trash(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, owner.ID, created.ID))

	_, err = svc.Get(ctx, owner.ID, created.ID)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeNotFound))
}

func TestPinnedNotesSortFirst(t *testing.T) {
	ctx := context.Background()
	svc, ts := newTestService(t)
	owner := seedUser(t, ts, "owner@example.com")

	first, err := svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner.ID, &CreateNoteRequest{Title: "second"})
	require.NoError(t, err)

	_, err = svc.SetPinned(ctx, owner.ID, first.ID, true)
	require.NoError(t, err)

	list, err := svc.List(ctx, owner.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)
}

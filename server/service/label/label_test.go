package label

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/server/service/invalidator"
	notesvc "github.com/usefundoo/fundoo/server/service/note"
	"github.com/usefundoo/fundoo/store"
	"github.com/usefundoo/fundoo/store/cache"
	storetest "github.com/usefundoo/fundoo/store/test"
)

func newTestServices(t *testing.T) (*Service, *notesvc.Service, *store.Store) {
	t.Helper()
	ts, _ := storetest.NewFakeStore()
	cacheStore := cache.NewMemoryStore(cache.MemoryConfig{CleanupInterval: time.Minute})
	t.Cleanup(cacheStore.Close)
	coordinator := invalidator.New(cacheStore)
	return NewService(ts, cacheStore, coordinator), notesvc.NewService(ts, cacheStore, coordinator), ts
}

func seedUser(t *testing.T, ts *store.Store, email string) *store.User {
	t.Helper()
	user, err := ts.CreateUser(context.Background(), &store.User{
		UID: email, FirstName: "Test", LastName: "User", Email: email, PasswordHash: "x",
	})
	require.NoError(t, err)
	return user
}

func TestCreateAndList(t *testing.T) {
	ctx := context.Background()
	svc, _, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, "work", nil)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "work", list[0].Name)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, _, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")
	other := seedUser(t, ts, "other@example.com")

	_, err := svc.Create(ctx, owner.ID, "work", nil)
	require.NoError(t, err)

	_, err = svc.Create(ctx, owner.ID, "work", nil)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeConflict))

	// Label names are only unique per owner.
	_, err = svc.Create(ctx, other.ID, "work", nil)
	assert.NoError(t, err)
}

func TestCreateAttachedToNote(t *testing.T) {
	ctx := context.Background()
	svc, notes, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")

	note, err := notes.Create(ctx, owner.ID, &notesvc.CreateNoteRequest{Title: "tagged"})
	require.NoError(t, err)

	label, err := svc.Create(ctx, owner.ID, "work", &note.ID)
	require.NoError(t, err)

	linked, err := svc.NotesByLabel(ctx, owner.ID, label.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, note.ID, linked[0].ID)

	got, err := notes.Get(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []int32{label.ID}, got.LabelIDs)
}

func TestLabelListIsCachedAndEvicted(t *testing.T) {
	ctx := context.Background()
	svc, _, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")

	created, err := svc.Create(ctx, owner.ID, "work", nil)
	require.NoError(t, err)

	// Warm the cache, rename underneath through the store, confirm staleness.
	_, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	name := "changed underneath"
	require.NoError(t, ts.UpdateLabel(ctx, &store.UpdateLabel{ID: created.ID, Name: &name}))
	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "work", list[0].Name)

	// A rename through the service evicts the list.
	_, err = svc.Rename(ctx, owner.ID, created.ID, "personal")
	require.NoError(t, err)
	list, err = svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "personal", list[0].Name)
}

func TestDeleteFansOutToLinkedNotes(t *testing.T) {
	ctx := context.Background()
	svc, notes, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")

	note, err := notes.Create(ctx, owner.ID, &notesvc.CreateNoteRequest{Title: "tagged"})
	require.NoError(t, err)
	label, err := svc.Create(ctx, owner.ID, "work", &note.ID)
	require.NoError(t, err)

	// Warm the detail key so a missed eviction would be visible.
	got, err := notes.Get(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []int32{label.ID}, got.LabelIDs)

	require.NoError(t, svc.Delete(ctx, owner.ID, label.ID))

	got, err = notes.Get(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LabelIDs)

	_, err = svc.NotesByLabel(ctx, owner.ID, label.ID)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeNotFound))
}

func TestAttachDetach(t *testing.T) {
	ctx := context.Background()
	svc, notes, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")

	note, err := notes.Create(ctx, owner.ID, &notesvc.CreateNoteRequest{Title: "tagged"})
	require.NoError(t, err)
	label, err := svc.Create(ctx, owner.ID, "work", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Attach(ctx, owner.ID, note.ID, label.ID))
	got, err := notes.Get(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, []int32{label.ID}, got.LabelIDs)

	require.NoError(t, svc.Detach(ctx, owner.ID, note.ID, label.ID))
	got, err = notes.Get(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.LabelIDs)
}

func TestAttachForeignNoteRejected(t *testing.T) {
	ctx := context.Background()
	svc, notes, ts := newTestServices(t)
	owner := seedUser(t, ts, "owner@example.com")
	other := seedUser(t, ts, "other@example.com")

	note, err := notes.Create(ctx, owner.ID, &notesvc.CreateNoteRequest{Title: "private"})
	require.NoError(t, err)
	label, err := svc.Create(ctx, other.ID, "sneaky", nil)
	require.NoError(t, err)

	err = svc.Attach(ctx, other.ID, note.ID, label.ID)
	assert.True(t, errcode.IsCode(err, errcode.ErrCodeNotFound))
}

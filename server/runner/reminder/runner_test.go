package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usefundoo/fundoo/store"
	storetest "github.com/usefundoo/fundoo/store/test"
)

type fakeDispatcher struct {
	mu sync.Mutex

	sent    []sentMail
	failFor map[string]error
}

type sentMail struct {
	recipient string
	subject   string
	body      string
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{failFor: map[string]error{}}
}

func (d *fakeDispatcher) Notify(_ context.Context, recipient, subject, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.failFor[recipient]; err != nil {
		return err
	}
	d.sent = append(d.sent, sentMail{recipient: recipient, subject: subject, body: body})
	return nil
}

func (d *fakeDispatcher) sentTo(recipient string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, m := range d.sent {
		if m.recipient == recipient {
			count++
		}
	}
	return count
}

func seedUser(t *testing.T, ts *store.Store, email string) *store.User {
	t.Helper()
	user, err := ts.CreateUser(context.Background(), &store.User{
		UID:          email,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return user
}

func seedNote(t *testing.T, ts *store.Store, creatorID int32, title string, reminderTs *int64) *store.Note {
	t.Helper()
	note, err := ts.CreateNote(context.Background(), &store.Note{
		UID:        title,
		CreatorID:  creatorID,
		Title:      title,
		ReminderTs: reminderTs,
	})
	require.NoError(t, err)
	return note
}

func int64Ptr(v int64) *int64 { return &v }

func TestRunOnceDeliversDueReminders(t *testing.T) {
	ctx := context.Background()
	ts, _ := storetest.NewFakeStore()
	dispatcher := newFakeDispatcher()
	runner := NewRunner(ts, dispatcher)

	user := seedUser(t, ts, "ada@example.com")
	past := time.Now().Add(-time.Minute).Unix()
	future := time.Now().Add(time.Hour).Unix()
	due := seedNote(t, ts, user.ID, "due note", int64Ptr(past))
	pending := seedNote(t, ts, user.ID, "future note", int64Ptr(future))
	seedNote(t, ts, user.ID, "no reminder", nil)

	runner.RunOnce(ctx)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "ada@example.com", dispatcher.sent[0].recipient)
	assert.Equal(t, "Reminder: due note", dispatcher.sent[0].subject)

	// Delivered reminder is cleared, future one is untouched.
	got, err := ts.GetNote(ctx, &store.FindNote{ID: &due.ID})
	require.NoError(t, err)
	assert.Nil(t, got.ReminderTs)

	got, err = ts.GetNote(ctx, &store.FindNote{ID: &pending.ID})
	require.NoError(t, err)
	require.NotNil(t, got.ReminderTs)
	assert.Equal(t, future, *got.ReminderTs)
}

func TestRunOnceSkipsTrashedNotes(t *testing.T) {
	ctx := context.Background()
	ts, _ := storetest.NewFakeStore()
	dispatcher := newFakeDispatcher()
	runner := NewRunner(ts, dispatcher)

	user := seedUser(t, ts, "ada@example.com")
	past := time.Now().Add(-time.Minute).Unix()
	note := seedNote(t, ts, user.ID, "trashed note", int64Ptr(past))
	trashed := true
	require.NoError(t, ts.UpdateNote(ctx, &store.UpdateNote{ID: note.ID, Trashed: &trashed}))

	runner.RunOnce(ctx)

	assert.Empty(t, dispatcher.sent)
}

func TestRunOnceIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	ts, _ := storetest.NewFakeStore()
	dispatcher := newFakeDispatcher()
	runner := NewRunner(ts, dispatcher)

	broken := seedUser(t, ts, "broken@example.com")
	healthy := seedUser(t, ts, "healthy@example.com")
	dispatcher.failFor["broken@example.com"] = errors.New("smtp unreachable")

	past := time.Now().Add(-time.Minute).Unix()
	failing := seedNote(t, ts, broken.ID, "failing note", int64Ptr(past))
	seedNote(t, ts, healthy.ID, "healthy note", int64Ptr(past))

	runner.RunOnce(ctx)

	// The healthy note is delivered despite the earlier failure.
	assert.Equal(t, 1, dispatcher.sentTo("healthy@example.com"))
	assert.Equal(t, 0, dispatcher.sentTo("broken@example.com"))

	// The failed reminder stays due and is retried on the next sweep.
	got, err := ts.GetNote(ctx, &store.FindNote{ID: &failing.ID})
	require.NoError(t, err)
	require.NotNil(t, got.ReminderTs)

	delete(dispatcher.failFor, "broken@example.com")
	runner.RunOnce(ctx)
	assert.Equal(t, 1, dispatcher.sentTo("broken@example.com"))

	// Healthy reminder was cleared, so it is not delivered twice.
	assert.Equal(t, 1, dispatcher.sentTo("healthy@example.com"))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ts, _ := storetest.NewFakeStore()
	dispatcher := newFakeDispatcher()
	runner := NewRunner(ts, dispatcher)
	runner.interval = 10 * time.Millisecond

	user := seedUser(t, ts, "ada@example.com")
	past := time.Now().Add(-time.Minute).Unix()
	seedNote(t, ts, user.ID, "due note", int64Ptr(past))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	// Wait for at least one tick to fire.
	assert.Eventually(t, func() bool {
		return dispatcher.sentTo("ada@example.com") == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

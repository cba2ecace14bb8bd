// Package reminder provides a background runner that delivers due note
// reminders by email.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/usefundoo/fundoo/plugin/mail"
	"github.com/usefundoo/fundoo/store"
)

const runnerInterval = time.Minute

// Runner delivers reminder notifications for notes whose reminder timestamp
// has passed. A reminder is cleared only after its notification went out, so
// a failed delivery is retried on the next sweep. Delivery is therefore
// at-least-once.
type Runner struct {
	Store      *store.Store
	Dispatcher mail.Dispatcher

	interval time.Duration
}

// NewRunner creates a new reminder runner.
func NewRunner(store *store.Store, dispatcher mail.Dispatcher) *Runner {
	return &Runner{
		Store:      store,
		Dispatcher: dispatcher,
		interval:   runnerInterval,
	}
}

// Run sweeps for due reminders on a fixed interval until the context is
// canceled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single sweep. A failure on one note never stops the
// sweep for the remaining notes.
func (r *Runner) RunOnce(ctx context.Context) {
	now := time.Now().Unix()
	notes, err := r.Store.ListNotesDueForReminder(ctx, now)
	if err != nil {
		slog.Error("failed to list due reminders", "err", err)
		return
	}

	for _, note := range notes {
		if err := r.notify(ctx, note); err != nil {
			slog.Error("failed to deliver reminder", "note", note.ID, "err", err)
			continue
		}
		if err := r.Store.ClearNoteReminder(ctx, note.ID); err != nil {
			// The reminder stays due and will be delivered again next sweep.
			slog.Error("failed to clear reminder", "note", note.ID, "err", err)
		}
	}
}

func (r *Runner) notify(ctx context.Context, note *store.Note) error {
	user, err := r.Store.GetUser(ctx, &store.FindUser{ID: &note.CreatorID})
	if err != nil {
		return err
	}
	if user == nil {
		return errors.Errorf("user %d not found", note.CreatorID)
	}

	subject := fmt.Sprintf("Reminder: %s", note.Title)
	body := mail.RenderReminderBody(note.Title, note.Description)
	return r.Dispatcher.Notify(ctx, user.Email, subject, body)
}

package store

import (
	"context"
	"time"
)

// Note is the object representing a note.
type Note struct {
	ID          int32
	UID         string
	CreatorID   int32
	CreatedTs   int64
	UpdatedTs   int64
	Title       string
	Description string
	Colour      string
	Image       string
	Pinned      bool
	Archived    bool
	Trashed     bool
	// ReminderTs is nil when no reminder is pending. The sweeper clears it
	// after a reminder has been delivered, which is what keeps a note from
	// being selected twice.
	ReminderTs *int64

	// LabelIDs holds the ids of labels attached to the note.
	// Populated by the driver on reads.
	LabelIDs []int32
}

// FindNote is the find condition for note.
type FindNote struct {
	ID  *int32
	UID *string
	// CreatorID restricts to notes owned by the user.
	CreatorID *int32
	// MemberID restricts to notes owned by the user or shared with them
	// through a collaborator entry.
	MemberID *int32
	// LabelID restricts to notes linked to the label.
	LabelID *int32

	Archived *bool
	Trashed  *bool

	Limit  *int
	Offset *int
}

// UpdateNote is the update request for note.
type UpdateNote struct {
	ID          int32
	UpdatedTs   *int64
	Title       *string
	Description *string
	Colour      *string
	Image       *string
	Pinned      *bool
	Archived    *bool
	Trashed     *bool
	ReminderTs  *int64
}

// DeleteNote is the delete request for note. The row is removed permanently;
// soft deletion goes through UpdateNote with Trashed.
type DeleteNote struct {
	ID int32
}

func (s *Store) CreateNote(ctx context.Context, create *Note) (*Note, error) {
	return s.driver.CreateNote(ctx, create)
}

func (s *Store) ListNotes(ctx context.Context, find *FindNote) ([]*Note, error) {
	return s.driver.ListNotes(ctx, find)
}

// GetNote gets a note with the find condition, or nil when absent.
func (s *Store) GetNote(ctx context.Context, find *FindNote) (*Note, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListNotes(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateNote(ctx context.Context, update *UpdateNote) error {
	return s.driver.UpdateNote(ctx, update)
}

func (s *Store) DeleteNote(ctx context.Context, delete *DeleteNote) error {
	return s.driver.DeleteNote(ctx, delete)
}

func (s *Store) ListNotesDueForReminder(ctx context.Context, nowTs int64) ([]*Note, error) {
	return s.driver.ListNotesDueForReminder(ctx, nowTs)
}

func (s *Store) ClearNoteReminder(ctx context.Context, noteID int32) error {
	return s.driver.ClearNoteReminder(ctx, noteID)
}

func (s *Store) AddNoteLabel(ctx context.Context, noteID, labelID int32) error {
	return s.driver.AddNoteLabel(ctx, noteID, labelID)
}

func (s *Store) RemoveNoteLabel(ctx context.Context, noteID, labelID int32) error {
	return s.driver.RemoveNoteLabel(ctx, noteID, labelID)
}

// ReminderTime parses the note reminder timestamp to time.Time.
func (n *Note) ReminderTime() *time.Time {
	if n.ReminderTs == nil {
		return nil
	}
	t := time.Unix(*n.ReminderTs, 0)
	return &t
}

// ReminderDueAt checks if the note reminder is due at the given time.
func (n *Note) ReminderDueAt(ts int64) bool {
	if n.ReminderTs == nil || n.Trashed {
		return false
	}
	return *n.ReminderTs <= ts
}

package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// Note model related methods.
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	UpdateNote(ctx context.Context, update *UpdateNote) error
	DeleteNote(ctx context.Context, delete *DeleteNote) error

	// ListNotesDueForReminder returns non-trashed notes whose reminder
	// timestamp has passed and has not been cleared yet.
	ListNotesDueForReminder(ctx context.Context, nowTs int64) ([]*Note, error)
	// ClearNoteReminder nulls out the reminder timestamp of a note.
	ClearNoteReminder(ctx context.Context, noteID int32) error

	// Label model related methods.
	CreateLabel(ctx context.Context, create *Label) (*Label, error)
	ListLabels(ctx context.Context, find *FindLabel) ([]*Label, error)
	UpdateLabel(ctx context.Context, update *UpdateLabel) error
	DeleteLabel(ctx context.Context, delete *DeleteLabel) error

	// Note-label link related methods.
	AddNoteLabel(ctx context.Context, noteID, labelID int32) error
	RemoveNoteLabel(ctx context.Context, noteID, labelID int32) error

	// Collaborator model related methods.
	CreateCollaborator(ctx context.Context, create *Collaborator) (*Collaborator, error)
	ListCollaborators(ctx context.Context, find *FindCollaborator) ([]*Collaborator, error)
	DeleteCollaborator(ctx context.Context, delete *DeleteCollaborator) error
}

package store

import (
	"context"
)

// Collaborator is the object representing a note shared with another user.
type Collaborator struct {
	ID      int32
	NoteID  int32
	UserID  int32
	Email   string
	AddedTs int64
}

// FindCollaborator is the find condition for collaborator.
type FindCollaborator struct {
	ID     *int32
	NoteID *int32
	UserID *int32
	Email  *string
}

// DeleteCollaborator is the delete request for collaborator.
type DeleteCollaborator struct {
	ID int32
}

func (s *Store) CreateCollaborator(ctx context.Context, create *Collaborator) (*Collaborator, error) {
	return s.driver.CreateCollaborator(ctx, create)
}

func (s *Store) ListCollaborators(ctx context.Context, find *FindCollaborator) ([]*Collaborator, error) {
	return s.driver.ListCollaborators(ctx, find)
}

// GetCollaborator gets a collaborator with the find condition, or nil when absent.
func (s *Store) GetCollaborator(ctx context.Context, find *FindCollaborator) (*Collaborator, error) {
	list, err := s.driver.ListCollaborators(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteCollaborator(ctx context.Context, delete *DeleteCollaborator) error {
	return s.driver.DeleteCollaborator(ctx, delete)
}

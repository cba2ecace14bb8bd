package store

import (
	"context"
)

// Label is the object representing a user-defined label.
type Label struct {
	ID        int32
	CreatorID int32
	CreatedTs int64
	UpdatedTs int64
	Name      string
}

// FindLabel is the find condition for label.
type FindLabel struct {
	ID        *int32
	CreatorID *int32
	Name      *string

	Limit  *int
	Offset *int
}

// UpdateLabel is the update request for label.
type UpdateLabel struct {
	ID        int32
	UpdatedTs *int64
	Name      *string
}

// DeleteLabel is the delete request for label.
type DeleteLabel struct {
	ID int32
}

func (s *Store) CreateLabel(ctx context.Context, create *Label) (*Label, error) {
	return s.driver.CreateLabel(ctx, create)
}

func (s *Store) ListLabels(ctx context.Context, find *FindLabel) ([]*Label, error) {
	return s.driver.ListLabels(ctx, find)
}

// GetLabel gets a label with the find condition, or nil when absent.
func (s *Store) GetLabel(ctx context.Context, find *FindLabel) (*Label, error) {
	limit := 1
	find.Limit = &limit
	list, err := s.driver.ListLabels(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateLabel(ctx context.Context, update *UpdateLabel) error {
	return s.driver.UpdateLabel(ctx, update)
}

func (s *Store) DeleteLabel(ctx context.Context, delete *DeleteLabel) error {
	return s.driver.DeleteLabel(ctx, delete)
}

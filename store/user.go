package store

import (
	"context"
)

// User is the object representing a registered user.
type User struct {
	ID           int32
	UID          string
	CreatedTs    int64
	UpdatedTs    int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
}

// FindUser is the find condition for user.
type FindUser struct {
	ID    *int32
	UID   *string
	Email *string

	Limit  *int
	Offset *int
}

// UpdateUser is the update request for user.
type UpdateUser struct {
	ID           int32
	UpdatedTs    *int64
	FirstName    *string
	LastName     *string
	Email        *string
	PasswordHash *string
}

// DeleteUser is the delete request for user.
type DeleteUser struct {
	ID int32
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	return s.driver.CreateUser(ctx, create)
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser gets a user with the find condition, or nil when absent.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	list, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	return s.driver.UpdateUser(ctx, update)
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	return s.driver.DeleteUser(ctx, delete)
}

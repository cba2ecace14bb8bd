// Package collaborator implements sharing notes with other registered users.
package collaborator

import (
	"context"

	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/server/service/invalidator"
	"github.com/usefundoo/fundoo/store"
)

// Service implements collaborator operations. Only the note owner manages
// collaborators; collaborators get read access to the note.
type Service struct {
	store       *store.Store
	invalidator *invalidator.Coordinator
}

// NewService creates a collaborator service.
func NewService(st *store.Store, coordinator *invalidator.Coordinator) *Service {
	return &Service{
		store:       st,
		invalidator: coordinator,
	}
}

// Add shares a note with the registered user behind the email address.
func (s *Service) Add(ctx context.Context, userID, noteID int32, email string) (*store.Collaborator, error) {
	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	target, err := s.store.GetUser(ctx, &store.FindUser{Email: &email})
	if err != nil {
		return nil, errcode.Internal("failed to look up user", err)
	}
	if target == nil {
		return nil, errcode.NotFound("no registered user with this email")
	}
	if target.ID == userID {
		return nil, errcode.InvalidArgument("cannot add yourself as a collaborator")
	}

	existing, err := s.store.GetCollaborator(ctx, &store.FindCollaborator{NoteID: &noteID, UserID: &target.ID})
	if err != nil {
		return nil, errcode.Internal("failed to check collaborator", err)
	}
	if existing != nil {
		return nil, errcode.Conflict("user is already a collaborator")
	}

	collaborator, err := s.store.CreateCollaborator(ctx, &store.Collaborator{
		NoteID: note.ID,
		UserID: target.ID,
		Email:  target.Email,
	})
	if err != nil {
		return nil, errcode.Internal("failed to create collaborator", err)
	}

	// The note shows up in the collaborator's lists now; their cached lists
	// must go. No detail read can be cached for them yet.
	s.invalidator.OnNoteMutated(ctx, target.ID, nil, nil)
	return collaborator, nil
}

// List returns the collaborators of a note owned by the user.
func (s *Service) List(ctx context.Context, userID, noteID int32) ([]*store.Collaborator, error) {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return nil, err
	}

	list, err := s.store.ListCollaborators(ctx, &store.FindCollaborator{NoteID: &noteID})
	if err != nil {
		return nil, errcode.Internal("failed to list collaborators", err)
	}
	return list, nil
}

// Remove revokes a collaborator's access to a note owned by the user.
func (s *Service) Remove(ctx context.Context, userID, noteID, collaboratorID int32) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}

	collaborator, err := s.store.GetCollaborator(ctx, &store.FindCollaborator{ID: &collaboratorID, NoteID: &noteID})
	if err != nil {
		return errcode.Internal("failed to get collaborator", err)
	}
	if collaborator == nil {
		return errcode.NotFound("collaborator not found")
	}

	if err := s.store.DeleteCollaborator(ctx, &store.DeleteCollaborator{ID: collaborator.ID}); err != nil {
		return errcode.Internal("failed to delete collaborator", err)
	}

	// The former collaborator may still have the note cached in lists and
	// as a detail read.
	s.invalidator.OnNoteMutated(ctx, collaborator.UserID, &noteID, nil)
	return nil
}

func (s *Service) ownedNote(ctx context.Context, userID, noteID int32) (*store.Note, error) {
	note, err := s.store.GetNote(ctx, &store.FindNote{ID: &noteID, CreatorID: &userID})
	if err != nil {
		return nil, errcode.Internal("failed to get note", err)
	}
	if note == nil {
		return nil, errcode.NotFound("note not found")
	}
	return note, nil
}

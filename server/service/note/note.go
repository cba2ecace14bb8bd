// Package note implements note operations on top of the store, with
// read-through caching on the read paths.
package note

import (
	"context"

	"github.com/lithammer/shortuuid/v4"

	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/server/service/invalidator"
	"github.com/usefundoo/fundoo/store"
	"github.com/usefundoo/fundoo/store/cache"
)

// Service implements note operations. Reads go through the cache; every write
// hits the store first and evicts the affected cache keys afterwards.
type Service struct {
	store       *store.Store
	cache       cache.Store
	invalidator *invalidator.Coordinator
	ttl         cache.TTLPolicy
}

// NewService creates a note service.
func NewService(st *store.Store, cacheStore cache.Store, coordinator *invalidator.Coordinator) *Service {
	return &Service{
		store:       st,
		cache:       cacheStore,
		invalidator: coordinator,
		ttl:         cache.DefaultTTLPolicy(),
	}
}

// CreateNoteRequest carries the fields of a new note.
type CreateNoteRequest struct {
	Title       string
	Description string
	Colour      string
	Image       string
	Pinned      bool
	ReminderTs  *int64
}

// UpdateNoteRequest carries a partial note update. Nil fields are left
// unchanged.
type UpdateNoteRequest struct {
	Title       *string
	Description *string
	Colour      *string
	Image       *string
	ReminderTs  *int64
}

// Create stores a new note for the user.
func (s *Service) Create(ctx context.Context, userID int32, req *CreateNoteRequest) (*store.Note, error) {
	if req.Title == "" {
		return nil, errcode.InvalidArgument("note title must not be empty")
	}

	note, err := s.store.CreateNote(ctx, &store.Note{
		UID:         shortuuid.New(),
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Colour:      req.Colour,
		Image:       req.Image,
		Pinned:      req.Pinned,
		ReminderTs:  req.ReminderTs,
	})
	if err != nil {
		return nil, errcode.Internal("failed to create note", err)
	}

	// No detail read of a brand-new note can be cached yet, so only the list
	// keys need eviction.
	s.invalidator.OnNoteMutated(ctx, userID, nil, nil)
	return note, nil
}

// Get returns a single note visible to the user, either owned or shared with
// them. The result is cached under the note detail key.
func (s *Service) Get(ctx context.Context, userID, noteID int32) (*store.Note, error) {
	key := invalidator.NoteDetailKey(userID, noteID)
	note, err := cache.GetOrSet(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*store.Note, error) {
		found, err := s.store.GetNote(ctx, &store.FindNote{ID: &noteID, MemberID: &userID})
		if err != nil {
			return nil, errcode.Internal("failed to get note", err)
		}
		if found == nil {
			// The error keeps the miss out of the cache.
			return nil, errcode.NotFound("note not found")
		}
		return found, nil
	})
	return note, err
}

// List returns the user's notes, including notes shared with them, filtered
// by archived and trashed state. Nil filters match both states. The result is
// cached per filter combination.
func (s *Service) List(ctx context.Context, userID int32, archived, trashed *bool) ([]*store.Note, error) {
	key := invalidator.NoteListKey(userID, archived, trashed)
	notes, err := cache.GetOrSet(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*store.Note, error) {
		list, err := s.store.ListNotes(ctx, &store.FindNote{
			MemberID: &userID,
			Archived: archived,
			Trashed:  trashed,
		})
		if err != nil {
			return nil, errcode.Internal("failed to list notes", err)
		}
		return list, nil
	})
	return notes, err
}

// Update applies a partial update to a note owned by the user.
func (s *Service) Update(ctx context.Context, userID, noteID int32, req *UpdateNoteRequest) (*store.Note, error) {
	if req.Title != nil && *req.Title == "" {
		return nil, errcode.InvalidArgument("note title must not be empty")
	}
	return s.mutate(ctx, userID, noteID, func(_ *store.Note, update *store.UpdateNote) error {
		update.Title = req.Title
		update.Description = req.Description
		update.Colour = req.Colour
		update.Image = req.Image
		update.ReminderTs = req.ReminderTs
		return nil
	})
}

// SetArchived archives or unarchives a note owned by the user.
func (s *Service) SetArchived(ctx context.Context, userID, noteID int32, archived bool) (*store.Note, error) {
	return s.mutate(ctx, userID, noteID, func(_ *store.Note, update *store.UpdateNote) error {
		update.Archived = &archived
		return nil
	})
}

// SetPinned pins or unpins a note owned by the user.
func (s *Service) SetPinned(ctx context.Context, userID, noteID int32, pinned bool) (*store.Note, error) {
	return s.mutate(ctx, userID, noteID, func(_ *store.Note, update *store.UpdateNote) error {
		update.Pinned = &pinned
		return nil
	})
}

// Trash moves a note owned by the user to the trash.
func (s *Service) Trash(ctx context.Context, userID, noteID int32) (*store.Note, error) {
	trashed := true
	return s.mutate(ctx, userID, noteID, func(_ *store.Note, update *store.UpdateNote) error {
		update.Trashed = &trashed
		return nil
	})
}

// Restore moves a trashed note back out of the trash.
func (s *Service) Restore(ctx context.Context, userID, noteID int32) (*store.Note, error) {
	trashed := false
	return s.mutate(ctx, userID, noteID, func(existing *store.Note, update *store.UpdateNote) error {
		if !existing.Trashed {
			return errcode.FailedPrecondition("note is not in the trash")
		}
		update.Trashed = &trashed
		return nil
	})
}

// Delete removes a trashed note permanently.
func (s *Service) Delete(ctx context.Context, userID, noteID int32) error {
	existing, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	if !existing.Trashed {
		return errcode.FailedPrecondition("note is not in the trash")
	}

	if err := s.store.DeleteNote(ctx, &store.DeleteNote{ID: noteID}); err != nil {
		return errcode.Internal("failed to delete note", err)
	}

	s.invalidator.OnNoteMutated(ctx, userID, &noteID, existing.LabelIDs)
	return nil
}

// mutate fetches the note owned by the user, lets apply fill the update, and
// evicts the affected cache keys after the write. The label set is captured
// before the mutation, which is what the notes-by-label eviction relies on.
func (s *Service) mutate(ctx context.Context, userID, noteID int32, apply func(existing *store.Note, update *store.UpdateNote) error) (*store.Note, error) {
	existing, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	update := &store.UpdateNote{ID: noteID}
	if err := apply(existing, update); err != nil {
		return nil, err
	}
	if err := s.store.UpdateNote(ctx, update); err != nil {
		return nil, errcode.Internal("failed to update note", err)
	}

	s.invalidator.OnNoteMutated(ctx, userID, &noteID, existing.LabelIDs)

	updated, err := s.store.GetNote(ctx, &store.FindNote{ID: &noteID})
	if err != nil {
		return nil, errcode.Internal("failed to reload note", err)
	}
	return updated, nil
}

// ownedNote returns the note only when the user is its creator. Shared notes
// are readable by collaborators but never mutable by them.
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

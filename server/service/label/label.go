// Package label implements label operations: user-defined labels, their
// attachment to notes, and the cached label-scoped read paths.
package label

import (
	"context"

	"github.com/usefundoo/fundoo/server/internal/errcode"
	"github.com/usefundoo/fundoo/server/service/invalidator"
	"github.com/usefundoo/fundoo/store"
	"github.com/usefundoo/fundoo/store/cache"
)

// Service implements label operations.
type Service struct {
	store       *store.Store
	cache       cache.Store
	invalidator *invalidator.Coordinator
	ttl         cache.TTLPolicy
}

// NewService creates a label service.
func NewService(st *store.Store, cacheStore cache.Store, coordinator *invalidator.Coordinator) *Service {
	return &Service{
		store:       st,
		cache:       cacheStore,
		invalidator: coordinator,
		ttl:         cache.DefaultTTLPolicy(),
	}
}

// Create stores a new label for the user. When noteID is given the label is
// attached to that note in the same call.
func (s *Service) Create(ctx context.Context, userID int32, name string, noteID *int32) (*store.Label, error) {
	if name == "" {
		return nil, errcode.InvalidArgument("label name must not be empty")
	}

	existing, err := s.store.GetLabel(ctx, &store.FindLabel{CreatorID: &userID, Name: &name})
	if err != nil {
		return nil, errcode.Internal("failed to check label name", err)
	}
	if existing != nil {
		return nil, errcode.Conflict("label name already exists")
	}

	if noteID != nil {
		if _, err := s.ownedNote(ctx, userID, *noteID); err != nil {
			return nil, err
		}
	}

	label, err := s.store.CreateLabel(ctx, &store.Label{CreatorID: userID, Name: name})
	if err != nil {
		return nil, errcode.Internal("failed to create label", err)
	}

	var noteIDs []int32
	if noteID != nil {
		if err := s.store.AddNoteLabel(ctx, *noteID, label.ID); err != nil {
			return nil, errcode.Internal("failed to attach label", err)
		}
		noteIDs = []int32{*noteID}
	}

	s.invalidator.OnLabelMutated(ctx, userID, label.ID, noteIDs)
	return label, nil
}

// List returns the user's labels. The result is cached under the owner's
// label list key.
func (s *Service) List(ctx context.Context, userID int32) ([]*store.Label, error) {
	key := invalidator.LabelListKey(userID)
	labels, err := cache.GetOrSet(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*store.Label, error) {
		list, err := s.store.ListLabels(ctx, &store.FindLabel{CreatorID: &userID})
		if err != nil {
			return nil, errcode.Internal("failed to list labels", err)
		}
		return list, nil
	})
	return labels, err
}

// NotesByLabel returns the user's notes linked to the label. The result is
// cached under the notes-by-label key.
func (s *Service) NotesByLabel(ctx context.Context, userID, labelID int32) ([]*store.Note, error) {
	if _, err := s.ownedLabel(ctx, userID, labelID); err != nil {
		return nil, err
	}

	key := invalidator.NotesByLabelKey(userID, labelID)
	notes, err := cache.GetOrSet(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*store.Note, error) {
		list, err := s.store.ListNotes(ctx, &store.FindNote{CreatorID: &userID, LabelID: &labelID})
		if err != nil {
			return nil, errcode.Internal("failed to list notes by label", err)
		}
		return list, nil
	})
	return notes, err
}

// Rename changes a label's name.
func (s *Service) Rename(ctx context.Context, userID, labelID int32, name string) (*store.Label, error) {
	if name == "" {
		return nil, errcode.InvalidArgument("label name must not be empty")
	}
	if _, err := s.ownedLabel(ctx, userID, labelID); err != nil {
		return nil, err
	}

	duplicate, err := s.store.GetLabel(ctx, &store.FindLabel{CreatorID: &userID, Name: &name})
	if err != nil {
		return nil, errcode.Internal("failed to check label name", err)
	}
	if duplicate != nil && duplicate.ID != labelID {
		return nil, errcode.Conflict("label name already exists")
	}

	noteIDs, err := s.linkedNoteIDs(ctx, userID, labelID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateLabel(ctx, &store.UpdateLabel{ID: labelID, Name: &name}); err != nil {
		return nil, errcode.Internal("failed to update label", err)
	}

	s.invalidator.OnLabelMutated(ctx, userID, labelID, noteIDs)
	return s.store.GetLabel(ctx, &store.FindLabel{ID: &labelID})
}

// Delete removes a label. Links to notes are removed with it.
func (s *Service) Delete(ctx context.Context, userID, labelID int32) error {
	if _, err := s.ownedLabel(ctx, userID, labelID); err != nil {
		return err
	}

	// Linked note ids must be captured before the delete cascades the links
	// away; afterwards the affected notes can no longer be discovered.
	noteIDs, err := s.linkedNoteIDs(ctx, userID, labelID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLabel(ctx, &store.DeleteLabel{ID: labelID}); err != nil {
		return errcode.Internal("failed to delete label", err)
	}

	s.invalidator.OnLabelMutated(ctx, userID, labelID, noteIDs)
	return nil
}

// Attach links a label to a note. Both must belong to the user.
func (s *Service) Attach(ctx context.Context, userID, noteID, labelID int32) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}
	if _, err := s.ownedLabel(ctx, userID, labelID); err != nil {
		return err
	}

	if err := s.store.AddNoteLabel(ctx, noteID, labelID); err != nil {
		return errcode.Internal("failed to attach label", err)
	}

	s.invalidator.OnNoteMutated(ctx, userID, &noteID, []int32{labelID})
	return nil
}

// Detach unlinks a label from a note.
func (s *Service) Detach(ctx context.Context, userID, noteID, labelID int32) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}
	if _, err := s.ownedLabel(ctx, userID, labelID); err != nil {
		return err
	}

	if err := s.store.RemoveNoteLabel(ctx, noteID, labelID); err != nil {
		return errcode.Internal("failed to detach label", err)
	}

	s.invalidator.OnNoteMutated(ctx, userID, &noteID, []int32{labelID})
	return nil
}

func (s *Service) linkedNoteIDs(ctx context.Context, userID, labelID int32) ([]int32, error) {
	notes, err := s.store.ListNotes(ctx, &store.FindNote{CreatorID: &userID, LabelID: &labelID})
	if err != nil {
		return nil, errcode.Internal("failed to list linked notes", err)
	}
	ids := make([]int32, 0, len(notes))
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func (s *Service) ownedLabel(ctx context.Context, userID, labelID int32) (*store.Label, error) {
	label, err := s.store.GetLabel(ctx, &store.FindLabel{ID: &labelID, CreatorID: &userID})
	if err != nil {
		return nil, errcode.Internal("failed to get label", err)
	}
	if label == nil {
		return nil, errcode.NotFound("label not found")
	}
	return label, nil
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

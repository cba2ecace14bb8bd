// Package test provides an in-memory store driver for service and runner
// tests.
package test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/usefundoo/fundoo/internal/profile"
	"github.com/usefundoo/fundoo/store"
)

// FakeDriver is an in-memory implementation of store.Driver. It mimics the
// filtering and ordering behavior of the SQL drivers closely enough for
// service-level tests. All methods are safe for concurrent use.
type FakeDriver struct {
	mu sync.Mutex

	// Err, when set, is returned by every subsequent call. Used to test
	// failure paths.
	Err error

	users         map[int32]*store.User
	notes         map[int32]*store.Note
	labels        map[int32]*store.Label
	noteLabels    map[int32]map[int32]bool
	collaborators map[int32]*store.Collaborator

	nextUserID         int32
	nextNoteID         int32
	nextLabelID        int32
	nextCollaboratorID int32
}

// NewFakeDriver creates an empty in-memory driver.
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		users:         make(map[int32]*store.User),
		notes:         make(map[int32]*store.Note),
		labels:        make(map[int32]*store.Label),
		noteLabels:    make(map[int32]map[int32]bool),
		collaborators: make(map[int32]*store.Collaborator),
	}
}

// NewFakeStore wraps a fresh FakeDriver in a store.Store.
func NewFakeStore() (*store.Store, *FakeDriver) {
	driver := NewFakeDriver()
	return store.New(driver, &profile.Profile{Mode: "dev", Driver: "fake"}), driver
}

func (d *FakeDriver) GetDB() *sql.DB { return nil }

func (d *FakeDriver) Close() error { return nil }

func (d *FakeDriver) IsInitialized(_ context.Context) (bool, error) { return true, nil }

// User methods.

func (d *FakeDriver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	for _, u := range d.users {
		if u.Email == create.Email {
			return nil, errDuplicate("user email", create.Email)
		}
	}

	d.nextUserID++
	user := *create
	user.ID = d.nextUserID
	if user.CreatedTs == 0 {
		user.CreatedTs = time.Now().Unix()
	}
	if user.UpdatedTs == 0 {
		user.UpdatedTs = user.CreatedTs
	}
	d.users[user.ID] = &user

	out := user
	return &out, nil
}

func (d *FakeDriver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	list := []*store.User{}
	for _, u := range d.users {
		if find.ID != nil && u.ID != *find.ID {
			continue
		}
		if find.UID != nil && u.UID != *find.UID {
			continue
		}
		if find.Email != nil && u.Email != *find.Email {
			continue
		}
		out := *u
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return paginate(list, find.Limit, find.Offset), nil
}

func (d *FakeDriver) UpdateUser(_ context.Context, update *store.UpdateUser) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	u, ok := d.users[update.ID]
	if !ok {
		return nil, errNotFound("user", update.ID)
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.UpdatedTs != nil {
		u.UpdatedTs = *update.UpdatedTs
	} else {
		u.UpdatedTs = time.Now().Unix()
	}

	out := *u
	return &out, nil
}

func (d *FakeDriver) DeleteUser(_ context.Context, del *store.DeleteUser) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	delete(d.users, del.ID)
	return nil
}

// Note methods.

func (d *FakeDriver) CreateNote(_ context.Context, create *store.Note) (*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	d.nextNoteID++
	note := *create
	note.ID = d.nextNoteID
	if note.CreatedTs == 0 {
		note.CreatedTs = time.Now().Unix()
	}
	if note.UpdatedTs == 0 {
		note.UpdatedTs = note.CreatedTs
	}
	note.LabelIDs = nil
	d.notes[note.ID] = &note

	out := note
	return &out, nil
}

func (d *FakeDriver) ListNotes(_ context.Context, find *store.FindNote) ([]*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	list := []*store.Note{}
	for _, n := range d.notes {
		if find.ID != nil && n.ID != *find.ID {
			continue
		}
		if find.UID != nil && n.UID != *find.UID {
			continue
		}
		if find.CreatorID != nil && n.CreatorID != *find.CreatorID {
			continue
		}
		if find.MemberID != nil && n.CreatorID != *find.MemberID && !d.isCollaborator(n.ID, *find.MemberID) {
			continue
		}
		if find.LabelID != nil && !d.noteLabels[n.ID][*find.LabelID] {
			continue
		}
		if find.Archived != nil && n.Archived != *find.Archived {
			continue
		}
		if find.Trashed != nil && n.Trashed != *find.Trashed {
			continue
		}
		out := *n
		out.LabelIDs = d.labelIDsOf(n.ID)
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Pinned != list[j].Pinned {
			return list[i].Pinned
		}
		if list[i].CreatedTs != list[j].CreatedTs {
			return list[i].CreatedTs > list[j].CreatedTs
		}
		return list[i].ID > list[j].ID
	})
	return paginate(list, find.Limit, find.Offset), nil
}

func (d *FakeDriver) UpdateNote(_ context.Context, update *store.UpdateNote) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	n, ok := d.notes[update.ID]
	if !ok {
		return errNotFound("note", update.ID)
	}
	if update.Title != nil {
		n.Title = *update.Title
	}
	if update.Description != nil {
		n.Description = *update.Description
	}
	if update.Colour != nil {
		n.Colour = *update.Colour
	}
	if update.Image != nil {
		n.Image = *update.Image
	}
	if update.Pinned != nil {
		n.Pinned = *update.Pinned
	}
	if update.Archived != nil {
		n.Archived = *update.Archived
	}
	if update.Trashed != nil {
		n.Trashed = *update.Trashed
	}
	if update.ReminderTs != nil {
		ts := *update.ReminderTs
		n.ReminderTs = &ts
	}
	if update.UpdatedTs != nil {
		n.UpdatedTs = *update.UpdatedTs
	} else {
		n.UpdatedTs = time.Now().Unix()
	}
	return nil
}

func (d *FakeDriver) DeleteNote(_ context.Context, del *store.DeleteNote) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	delete(d.notes, del.ID)
	delete(d.noteLabels, del.ID)
	for id, c := range d.collaborators {
		if c.NoteID == del.ID {
			delete(d.collaborators, id)
		}
	}
	return nil
}

func (d *FakeDriver) ListNotesDueForReminder(_ context.Context, nowTs int64) ([]*store.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	list := []*store.Note{}
	for _, n := range d.notes {
		if n.ReminderDueAt(nowTs) {
			out := *n
			out.LabelIDs = d.labelIDsOf(n.ID)
			list = append(list, &out)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *FakeDriver) ClearNoteReminder(_ context.Context, noteID int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	if n, ok := d.notes[noteID]; ok {
		n.ReminderTs = nil
	}
	return nil
}

// Label methods.

func (d *FakeDriver) CreateLabel(_ context.Context, create *store.Label) (*store.Label, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	for _, l := range d.labels {
		if l.CreatorID == create.CreatorID && l.Name == create.Name {
			return nil, errDuplicate("label", create.Name)
		}
	}

	d.nextLabelID++
	label := *create
	label.ID = d.nextLabelID
	if label.CreatedTs == 0 {
		label.CreatedTs = time.Now().Unix()
	}
	if label.UpdatedTs == 0 {
		label.UpdatedTs = label.CreatedTs
	}
	d.labels[label.ID] = &label

	out := label
	return &out, nil
}

func (d *FakeDriver) ListLabels(_ context.Context, find *store.FindLabel) ([]*store.Label, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	list := []*store.Label{}
	for _, l := range d.labels {
		if find.ID != nil && l.ID != *find.ID {
			continue
		}
		if find.CreatorID != nil && l.CreatorID != *find.CreatorID {
			continue
		}
		if find.Name != nil && l.Name != *find.Name {
			continue
		}
		out := *l
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, find.Limit, find.Offset), nil
}

func (d *FakeDriver) UpdateLabel(_ context.Context, update *store.UpdateLabel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	l, ok := d.labels[update.ID]
	if !ok {
		return errNotFound("label", update.ID)
	}
	if update.Name != nil {
		l.Name = *update.Name
	}
	if update.UpdatedTs != nil {
		l.UpdatedTs = *update.UpdatedTs
	} else {
		l.UpdatedTs = time.Now().Unix()
	}
	return nil
}

func (d *FakeDriver) DeleteLabel(_ context.Context, del *store.DeleteLabel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	delete(d.labels, del.ID)
	for noteID := range d.noteLabels {
		delete(d.noteLabels[noteID], del.ID)
	}
	return nil
}

// Note-label link methods.

func (d *FakeDriver) AddNoteLabel(_ context.Context, noteID, labelID int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	if d.noteLabels[noteID] == nil {
		d.noteLabels[noteID] = make(map[int32]bool)
	}
	d.noteLabels[noteID][labelID] = true
	return nil
}

func (d *FakeDriver) RemoveNoteLabel(_ context.Context, noteID, labelID int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}

	delete(d.noteLabels[noteID], labelID)
	return nil
}

// Collaborator methods.

func (d *FakeDriver) CreateCollaborator(_ context.Context, create *store.Collaborator) (*store.Collaborator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	for _, c := range d.collaborators {
		if c.NoteID == create.NoteID && c.UserID == create.UserID {
			return nil, errDuplicate("collaborator", create.Email)
		}
	}

	d.nextCollaboratorID++
	collaborator := *create
	collaborator.ID = d.nextCollaboratorID
	if collaborator.AddedTs == 0 {
		collaborator.AddedTs = time.Now().Unix()
	}
	d.collaborators[collaborator.ID] = &collaborator

	out := collaborator
	return &out, nil
}

func (d *FakeDriver) ListCollaborators(_ context.Context, find *store.FindCollaborator) ([]*store.Collaborator, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}

	list := []*store.Collaborator{}
	for _, c := range d.collaborators {
		if find.ID != nil && c.ID != *find.ID {
			continue
		}
		if find.NoteID != nil && c.NoteID != *find.NoteID {
			continue
		}
		if find.UserID != nil && c.UserID != *find.UserID {
			continue
		}
		if find.Email != nil && c.Email != *find.Email {
			continue
		}
		out := *c
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *FakeDriver) DeleteCollaborator(_ context.Context, del *store.DeleteCollaborator) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	delete(d.collaborators, del.ID)
	return nil
}

// Helpers. Callers must hold d.mu.

func (d *FakeDriver) isCollaborator(noteID, userID int32) bool {
	for _, c := range d.collaborators {
		if c.NoteID == noteID && c.UserID == userID {
			return true
		}
	}
	return false
}

func (d *FakeDriver) labelIDsOf(noteID int32) []int32 {
	ids := []int32{}
	for labelID := range d.noteLabels[noteID] {
		ids = append(ids, labelID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func paginate[T any](list []T, limit, offset *int) []T {
	if offset != nil {
		if *offset >= len(list) {
			return []T{}
		}
		list = list[*offset:]
	}
	if limit != nil && *limit < len(list) {
		list = list[:*limit]
	}
	return list
}

var _ store.Driver = (*FakeDriver)(nil)

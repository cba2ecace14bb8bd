package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/usefundoo/fundoo/store"
)

func (d *DB) CreateNote(ctx context.Context, create *store.Note) (*store.Note, error) {
	fields := []string{"uid", "creator_id", "title", "description", "colour", "image", "pinned", "archived", "trashed", "reminder_ts"}
	placeholderValues := []any{
		create.UID, create.CreatorID, create.Title, create.Description,
		create.Colour, create.Image, create.Pinned, create.Archived, create.Trashed, create.ReminderTs,
	}

	stmt := `INSERT INTO note (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return create, nil
}

func (d *DB) ListNotes(ctx context.Context, find *store.FindNote) ([]*store.Note, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "note.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "note.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "note.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.MemberID; v != nil {
		where = append(where, "(note.creator_id = "+placeholder(len(args)+1)+
			" OR note.id IN (SELECT note_id FROM collaborator WHERE user_id = "+placeholder(len(args)+2)+"))")
		args = append(args, *v, *v)
	}
	if v := find.LabelID; v != nil {
		where, args = append(where, "note.id IN (SELECT note_id FROM note_label WHERE label_id = "+placeholder(len(args)+1)+")"), append(args, *v)
	}
	if v := find.Archived; v != nil {
		where, args = append(where, "note.archived = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Trashed; v != nil {
		where, args = append(where, "note.trashed = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts,
			title, description, colour, image,
			pinned, archived, trashed, reminder_ts
		FROM note
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY note.pinned DESC, note.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Note, 0)
	for rows.Next() {
		var note store.Note
		var reminderTs sql.NullInt64

		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.CreatorID,
			&note.CreatedTs,
			&note.UpdatedTs,
			&note.Title,
			&note.Description,
			&note.Colour,
			&note.Image,
			&note.Pinned,
			&note.Archived,
			&note.Trashed,
			&reminderTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}

		if reminderTs.Valid {
			note.ReminderTs = &reminderTs.Int64
		}
		list = append(list, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	if err := d.loadNoteLabels(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

func (d *DB) loadNoteLabels(ctx context.Context, notes []*store.Note) error {
	if len(notes) == 0 {
		return nil
	}

	byID := make(map[int32]*store.Note, len(notes))
	args := make([]any, 0, len(notes))
	for _, note := range notes {
		byID[note.ID] = note
		args = append(args, note.ID)
	}

	query := `SELECT note_id, label_id FROM note_label WHERE note_id IN (` + placeholders(len(args)) + `)`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query note labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, labelID int32
		if err := rows.Scan(&noteID, &labelID); err != nil {
			return fmt.Errorf("failed to scan note label: %w", err)
		}
		if note, ok := byID[noteID]; ok {
			note.LabelIDs = append(note.LabelIDs, labelID)
		}
	}
	return rows.Err()
}

func (d *DB) UpdateNote(ctx context.Context, update *store.UpdateNote) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Colour; v != nil {
		set, args = append(set, "colour = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Image; v != nil {
		set, args = append(set, "image = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Pinned; v != nil {
		set, args = append(set, "pinned = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Archived; v != nil {
		set, args = append(set, "archived = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Trashed; v != nil {
		set, args = append(set, "trashed = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ReminderTs; v != nil {
		set, args = append(set, "reminder_ts = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE note SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (d *DB) DeleteNote(ctx context.Context, delete *store.DeleteNote) error {
	stmt := `DELETE FROM note WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("note not found")
	}

	return nil
}

func (d *DB) ListNotesDueForReminder(ctx context.Context, nowTs int64) ([]*store.Note, error) {
	query := `
		SELECT
			id, uid, creator_id, created_ts, updated_ts,
			title, description, colour, image,
			pinned, archived, trashed, reminder_ts
		FROM note
		WHERE reminder_ts IS NOT NULL AND reminder_ts <= ` + placeholder(1) + ` AND trashed = FALSE
		ORDER BY reminder_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, nowTs)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Note, 0)
	for rows.Next() {
		var note store.Note
		var reminderTs sql.NullInt64
		if err := rows.Scan(
			&note.ID,
			&note.UID,
			&note.CreatorID,
			&note.CreatedTs,
			&note.UpdatedTs,
			&note.Title,
			&note.Description,
			&note.Colour,
			&note.Image,
			&note.Pinned,
			&note.Archived,
			&note.Trashed,
			&reminderTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan due reminder: %w", err)
		}
		if reminderTs.Valid {
			note.ReminderTs = &reminderTs.Int64
		}
		list = append(list, &note)
	}
	return list, rows.Err()
}

func (d *DB) ClearNoteReminder(ctx context.Context, noteID int32) error {
	stmt := `UPDATE note SET reminder_ts = NULL WHERE id = ` + placeholder(1)
	if _, err := d.db.ExecContext(ctx, stmt, noteID); err != nil {
		return fmt.Errorf("failed to clear note reminder: %w", err)
	}
	return nil
}

func (d *DB) AddNoteLabel(ctx context.Context, noteID, labelID int32) error {
	stmt := `INSERT INTO note_label (note_id, label_id) VALUES (` + placeholders(2) + `) ON CONFLICT DO NOTHING`
	if _, err := d.db.ExecContext(ctx, stmt, noteID, labelID); err != nil {
		return fmt.Errorf("failed to add note label: %w", err)
	}
	return nil
}

func (d *DB) RemoveNoteLabel(ctx context.Context, noteID, labelID int32) error {
	stmt := `DELETE FROM note_label WHERE note_id = ` + placeholder(1) + ` AND label_id = ` + placeholder(2)
	if _, err := d.db.ExecContext(ctx, stmt, noteID, labelID); err != nil {
		return fmt.Errorf("failed to remove note label: %w", err)
	}
	return nil
}

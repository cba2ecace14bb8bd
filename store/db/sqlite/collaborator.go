package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/usefundoo/fundoo/store"
)

func (d *DB) CreateCollaborator(ctx context.Context, create *store.Collaborator) (*store.Collaborator, error) {
	stmt := `INSERT INTO collaborator (note_id, user_id, email)
		VALUES (` + placeholders(3) + `)
		RETURNING id, added_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.NoteID, create.UserID, create.Email).Scan(
		&create.ID,
		&create.AddedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create collaborator: %w", err)
	}

	return create, nil
}

func (d *DB) ListCollaborators(ctx context.Context, find *store.FindCollaborator) ([]*store.Collaborator, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "collaborator.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.NoteID; v != nil {
		where, args = append(where, "collaborator.note_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "collaborator.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "collaborator.email = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, note_id, user_id, email, added_ts
		FROM collaborator
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY collaborator.added_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Collaborator, 0)
	for rows.Next() {
		var collaborator store.Collaborator
		if err := rows.Scan(
			&collaborator.ID,
			&collaborator.NoteID,
			&collaborator.UserID,
			&collaborator.Email,
			&collaborator.AddedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		list = append(list, &collaborator)
	}
	return list, rows.Err()
}

func (d *DB) DeleteCollaborator(ctx context.Context, delete *store.DeleteCollaborator) error {
	stmt := `DELETE FROM collaborator WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete collaborator: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("collaborator not found")
	}

	return nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/usefundoo/fundoo/store"
)

func (d *DB) CreateLabel(ctx context.Context, create *store.Label) (*store.Label, error) {
	stmt := `INSERT INTO label (creator_id, name)
		VALUES (` + placeholders(2) + `)
		RETURNING id, created_ts, updated_ts`

	if err := d.db.QueryRowContext(ctx, stmt, create.CreatorID, create.Name).Scan(
		&create.ID,
		&create.CreatedTs,
		&create.UpdatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}

	return create, nil
}

func (d *DB) ListLabels(ctx context.Context, find *store.FindLabel) ([]*store.Label, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "label.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "label.creator_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "label.name = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, creator_id, created_ts, updated_ts, name
		FROM label
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY label.name ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Label, 0)
	for rows.Next() {
		var label store.Label
		if err := rows.Scan(
			&label.ID,
			&label.CreatorID,
			&label.CreatedTs,
			&label.UpdatedTs,
			&label.Name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		list = append(list, &label)
	}
	return list, rows.Err()
}

func (d *DB) UpdateLabel(ctx context.Context, update *store.UpdateLabel) error {
	set, args := []string{}, []any{}

	if v := update.UpdatedTs; v != nil {
		set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Name; v != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *v)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE label SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update label: %w", err)
	}

	return nil
}

func (d *DB) DeleteLabel(ctx context.Context, delete *store.DeleteLabel) error {
	stmt := `DELETE FROM label WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete label: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("label not found")
	}

	return nil
}

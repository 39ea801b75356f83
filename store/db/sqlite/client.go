package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// CreateClient creates a new client.
func (d *DB) CreateClient(ctx context.Context, create *store.Client) (*store.Client, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO client (name, display_name, email, phone, date_of_birth, gender, is_active, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Name, create.DisplayName, create.Email, create.Phone,
		create.DateOfBirth, string(create.Gender), create.IsActive, now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create client")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return create, nil
}

// ListClients lists clients matching the find condition.
func (d *DB) ListClients(ctx context.Context, find *store.FindClient) ([]*store.Client, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.IsActive != nil {
		where, args = append(where, "is_active = ?"), append(args, *find.IsActive)
	}

	query := `
		SELECT id, name, display_name, email, phone, date_of_birth, gender, is_active, created_ts, updated_ts
		FROM client
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
		if find.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list clients")
	}
	defer rows.Close()

	list := []*store.Client{}
	for rows.Next() {
		var client store.Client
		var gender string
		if err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.DisplayName,
			&client.Email,
			&client.Phone,
			&client.DateOfBirth,
			&gender,
			&client.IsActive,
			&client.CreatedTs,
			&client.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan client")
		}
		client.Gender = store.Gender(gender)
		list = append(list, &client)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

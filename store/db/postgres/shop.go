package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// CreateShop creates a new shop.
func (d *DB) CreateShop(ctx context.Context, create *store.Shop) (*store.Shop, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO shop (name, description, local_number, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Name, create.Description, create.LocalNumber, now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create shop")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return create, nil
}

// ListShops lists shops matching the find condition.
func (d *DB) ListShops(ctx context.Context, find *store.FindShop) ([]*store.Shop, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}

	query := `
		SELECT id, name, description, local_number, created_ts, updated_ts
		FROM shop
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shops")
	}
	defer rows.Close()

	list := []*store.Shop{}
	for rows.Next() {
		var shop store.Shop
		if err := rows.Scan(
			&shop.ID,
			&shop.Name,
			&shop.Description,
			&shop.LocalNumber,
			&shop.CreatedTs,
			&shop.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan shop")
		}
		list = append(list, &shop)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// CreateCategory creates a new category.
func (d *DB) CreateCategory(ctx context.Context, create *store.Category) (*store.Category, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO category (name, description, created_ts, updated_ts)
		VALUES (` + placeholders(4) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Name, create.Description, now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create category")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return create, nil
}

// ListCategories lists categories matching the find condition.
func (d *DB) ListCategories(ctx context.Context, find *store.FindCategory) ([]*store.Category, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.Name != nil {
		where, args = append(where, "name = "+placeholder(len(args)+1)), append(args, *find.Name)
	}

	query := `
		SELECT id, name, description, created_ts, updated_ts
		FROM category
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}
	defer rows.Close()

	list := []*store.Category{}
	for rows.Next() {
		var category store.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CreatedTs,
			&category.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan category")
		}
		list = append(list, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateSubCategory creates a new subcategory.
func (d *DB) CreateSubCategory(ctx context.Context, create *store.SubCategory) (*store.SubCategory, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO subcategory (name, description, category_id, created_ts, updated_ts)
		VALUES (` + placeholders(5) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Name, create.Description, create.CategoryID, now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create subcategory")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return create, nil
}

// ListSubCategories lists subcategories matching the find condition.
func (d *DB) ListSubCategories(ctx context.Context, find *store.FindSubCategory) ([]*store.SubCategory, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.CategoryID != nil {
		where, args = append(where, "category_id = "+placeholder(len(args)+1)), append(args, *find.CategoryID)
	}

	query := `
		SELECT id, name, description, category_id, created_ts, updated_ts
		FROM subcategory
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY name
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list subcategories")
	}
	defer rows.Close()

	list := []*store.SubCategory{}
	for rows.Next() {
		var subcategory store.SubCategory
		if err := rows.Scan(
			&subcategory.ID,
			&subcategory.Name,
			&subcategory.Description,
			&subcategory.CategoryID,
			&subcategory.CreatedTs,
			&subcategory.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan subcategory")
		}
		list = append(list, &subcategory)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// CreateProduct creates a new product.
func (d *DB) CreateProduct(ctx context.Context, create *store.Product) (*store.Product, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO product (name, description, price, stock, image_url, category_id, subcategory_id, created_ts, updated_ts)
		VALUES (` + placeholders(9) + `)
		RETURNING id
	`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Name, create.Description, create.Price, create.Stock,
		create.ImageURL, create.CategoryID, create.SubcategoryID, now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return create, nil
}

// ListProducts lists products with their category and subcategory names joined in.
func (d *DB) ListProducts(ctx context.Context, find *store.FindProduct) ([]*store.Product, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "p.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if len(find.IDs) > 0 {
		where, args = append(where, "p.id = ANY("+placeholder(len(args)+1)+")"), append(args, pq.Array(find.IDs))
	}
	if find.CategoryID != nil {
		where, args = append(where, "p.category_id = "+placeholder(len(args)+1)), append(args, *find.CategoryID)
	}

	query := `
		SELECT
			p.id, p.name, p.description, p.price, p.stock, p.image_url,
			p.category_id, c.name, p.subcategory_id, sc.name,
			p.created_ts, p.updated_ts
		FROM product p
		INNER JOIN category c ON p.category_id = c.id
		INNER JOIN subcategory sc ON p.subcategory_id = sc.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.id DESC
	`
	if find.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", find.Limit)
		if find.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	defer rows.Close()

	list := []*store.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*store.Product, error) {
	var product store.Product
	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.ImageURL,
		&product.CategoryID,
		&product.CategoryName,
		&product.SubcategoryID,
		&product.SubcategoryName,
		&product.CreatedTs,
		&product.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "failed to scan product")
	}
	return &product, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// CreateSale creates a sale together with its product associations in a single
// transaction.
func (d *DB) CreateSale(ctx context.Context, create *store.Sale, productIDs []int32) (*store.Sale, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt := `
		INSERT INTO sale (client_id, shop_id, total, payment_method, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, stmt,
		create.ClientID, create.ShopID, create.Total, string(create.PaymentMethod), now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create sale")
	}

	for _, productID := range productIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sale_product (sale_id, product_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
			create.ID, productID,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to link product %d to sale", productID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit sale")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return d.GetSale(ctx, create.ID)
}

// GetSale returns the sale with its product set loaded, or nil when not found.
func (d *DB) GetSale(ctx context.Context, id int32) (*store.Sale, error) {
	query := `
		SELECT id, client_id, shop_id, total, payment_method, created_ts, updated_ts
		FROM sale
		WHERE id = ?
	`

	var sale store.Sale
	var paymentMethod string
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&sale.ID,
		&sale.ClientID,
		&sale.ShopID,
		&sale.Total,
		&paymentMethod,
		&sale.CreatedTs,
		&sale.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sale")
	}
	sale.PaymentMethod = store.PaymentMethod(paymentMethod)

	products, err := d.listSaleProducts(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	sale.Products = products

	return &sale, nil
}

func (d *DB) listSaleProducts(ctx context.Context, saleID int32) ([]*store.Product, error) {
	query := `
		SELECT
			p.id, p.name, p.description, p.price, p.stock, p.image_url,
			p.category_id, c.name, p.subcategory_id, sc.name,
			p.created_ts, p.updated_ts
		FROM sale_product sp
		INNER JOIN product p ON sp.product_id = p.id
		INNER JOIN category c ON p.category_id = c.id
		INNER JOIN subcategory sc ON p.subcategory_id = sc.id
		WHERE sp.sale_id = ?
		ORDER BY p.id
	`
	rows, err := d.db.QueryContext(ctx, query, saleID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sale products")
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

package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// GetOrCreateRecommendationItem looks up the recommendation item stored under
// the exact score value, inserting it first when absent. The UNIQUE constraint
// on score serializes concurrent lookup-or-create calls: the losing insert
// falls through to the select.
func (d *DB) GetOrCreateRecommendationItem(ctx context.Context, get *store.GetOrCreateRecommendationItem) (*store.RecommendationItem, bool, error) {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO recommendation_item (score, metric, created_ts, updated_ts)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (score) DO NOTHING
		RETURNING id
	`

	item := store.RecommendationItem{Score: get.Score, Metric: get.Metric}
	created := false
	err := d.db.QueryRowContext(ctx, stmt, get.Score, get.Metric, now, now).Scan(&item.ID)
	switch {
	case err == nil:
		created = true
		item.CreatedTs = now
		item.UpdatedTs = now
	case err == sql.ErrNoRows:
		// Conflict: the item already exists, fetch it.
		query := `SELECT id, metric, created_ts, updated_ts FROM recommendation_item WHERE score = ` + placeholder(1)
		if err := d.db.QueryRowContext(ctx, query, get.Score).Scan(
			&item.ID, &item.Metric, &item.CreatedTs, &item.UpdatedTs,
		); err != nil {
			return nil, false, errors.Wrap(err, "failed to get recommendation item")
		}
	default:
		return nil, false, errors.Wrap(err, "failed to create recommendation item")
	}

	// Product associations are attached on creation only. Reused items keep
	// their original associations.
	if created {
		for _, productID := range get.ProductIDs {
			if _, err := d.db.ExecContext(ctx,
				`INSERT INTO recommendation_item_product (item_id, product_id) VALUES (`+placeholders(2)+`) ON CONFLICT DO NOTHING`,
				item.ID, productID,
			); err != nil {
				return nil, false, errors.Wrapf(err, "failed to link product %d to recommendation item", productID)
			}
		}
	}

	products, err := d.listRecommendationItemProducts(ctx, item.ID)
	if err != nil {
		return nil, false, err
	}
	item.Products = products

	return &item, created, nil
}

// CreateRecommendation creates a recommendation row and links the given items
// in a single transaction. The UNIQUE constraint on sale_id keeps the pipeline
// at one recommendation per sale.
func (d *DB) CreateRecommendation(ctx context.Context, create *store.Recommendation, itemIDs []int32) (*store.Recommendation, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	stmt := `
		INSERT INTO recommendation (uid, sale_id, client_id, confidence_score, was_purchased, reason, created_ts, updated_ts)
		VALUES (` + placeholders(8) + `)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, stmt,
		create.UID, create.SaleID, create.ClientID, create.ConfidenceScore,
		create.WasPurchased, create.Reason, now, now,
	).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create recommendation")
	}

	for _, itemID := range itemIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recommendation_item_link (recommendation_id, item_id) VALUES (`+placeholders(2)+`) ON CONFLICT DO NOTHING`,
			create.ID, itemID,
		); err != nil {
			return nil, errors.Wrapf(err, "failed to link item %d to recommendation", itemID)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit recommendation")
	}

	create.CreatedTs = now
	create.UpdatedTs = now
	return d.GetRecommendationBySaleID(ctx, create.SaleID)
}

// GetRecommendationBySaleID returns the sale's recommendation with its items
// and their products loaded, or nil when none exists.
func (d *DB) GetRecommendationBySaleID(ctx context.Context, saleID int32) (*store.Recommendation, error) {
	query := `
		SELECT id, uid, sale_id, client_id, confidence_score, was_purchased, reason, created_ts, updated_ts
		FROM recommendation
		WHERE sale_id = ` + placeholder(1)

	var recommendation store.Recommendation
	err := d.db.QueryRowContext(ctx, query, saleID).Scan(
		&recommendation.ID,
		&recommendation.UID,
		&recommendation.SaleID,
		&recommendation.ClientID,
		&recommendation.ConfidenceScore,
		&recommendation.WasPurchased,
		&recommendation.Reason,
		&recommendation.CreatedTs,
		&recommendation.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get recommendation")
	}

	items, err := d.listRecommendationItems(ctx, recommendation.ID)
	if err != nil {
		return nil, err
	}
	recommendation.Items = items

	return &recommendation, nil
}

// UpdateRecommendation applies the non-nil fields of the update condition.
func (d *DB) UpdateRecommendation(ctx context.Context, update *store.UpdateRecommendation) (*store.Recommendation, error) {
	set, args := []string{}, []any{}

	if update.WasPurchased != nil {
		set, args = append(set, "was_purchased = "+placeholder(len(args)+1)), append(args, *update.WasPurchased)
	}
	if update.Reason != nil {
		set, args = append(set, "reason = "+placeholder(len(args)+1)), append(args, *update.Reason)
	}
	if len(set) == 0 {
		return nil, errors.New("no fields to update")
	}

	set, args = append(set, "updated_ts = "+placeholder(len(args)+1)), append(args, time.Now().Unix())

	stmt := `
		UPDATE recommendation
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ` + placeholder(len(args)+1) + `
		RETURNING sale_id
	`
	args = append(args, update.ID)

	var saleID int32
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&saleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to update recommendation")
	}

	return d.GetRecommendationBySaleID(ctx, saleID)
}

func (d *DB) listRecommendationItems(ctx context.Context, recommendationID int32) ([]*store.RecommendationItem, error) {
	query := `
		SELECT ri.id, ri.score, ri.metric, ri.created_ts, ri.updated_ts
		FROM recommendation_item_link l
		INNER JOIN recommendation_item ri ON l.item_id = ri.id
		WHERE l.recommendation_id = ` + placeholder(1) + `
		ORDER BY ri.score
	`
	rows, err := d.db.QueryContext(ctx, query, recommendationID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recommendation items")
	}
	defer rows.Close()

	list := []*store.RecommendationItem{}
	for rows.Next() {
		var item store.RecommendationItem
		if err := rows.Scan(&item.ID, &item.Score, &item.Metric, &item.CreatedTs, &item.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan recommendation item")
		}
		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, item := range list {
		products, err := d.listRecommendationItemProducts(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		item.Products = products
	}

	return list, nil
}

func (d *DB) listRecommendationItemProducts(ctx context.Context, itemID int32) ([]*store.Product, error) {
	query := `
		SELECT
			p.id, p.name, p.description, p.price, p.stock, p.image_url,
			p.category_id, c.name, p.subcategory_id, sc.name,
			p.created_ts, p.updated_ts
		FROM recommendation_item_product rip
		INNER JOIN product p ON rip.product_id = p.id
		INNER JOIN category c ON p.category_id = c.id
		INNER JOIN subcategory sc ON p.subcategory_id = sc.id
		WHERE rip.item_id = ` + placeholder(1) + `
		ORDER BY p.id
	`
	rows, err := d.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recommendation item products")
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

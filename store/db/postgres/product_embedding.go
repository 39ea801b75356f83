package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// UpsertProductEmbedding inserts or updates a product embedding together with
// the metadata the category filter runs against.
func (d *DB) UpsertProductEmbedding(ctx context.Context, upsert *store.ProductEmbedding) error {
	now := time.Now().Unix()
	stmt := `
		INSERT INTO product_embedding (product_id, embedding, category, subcategory, model, created_ts, updated_ts)
		VALUES (` + placeholders(7) + `)
		ON CONFLICT (product_id)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			category = EXCLUDED.category,
			subcategory = EXCLUDED.subcategory,
			model = EXCLUDED.model,
			updated_ts = EXCLUDED.updated_ts
	`

	vector := pgvector.NewVector(upsert.Embedding)
	if _, err := d.db.ExecContext(ctx, stmt,
		upsert.ProductID, vector, upsert.Category, upsert.Subcategory, upsert.Model, now, now,
	); err != nil {
		return errors.Wrap(err, "failed to upsert product embedding")
	}
	return nil
}

// SearchProductEmbeddings performs vector similarity search using pgvector.
// The <=> operator computes cosine distance, so ordering ascending returns the
// closest products first.
func (d *DB) SearchProductEmbeddings(ctx context.Context, opts *store.SearchProductEmbeddingsOptions) ([]*store.ProductDistance, error) {
	where, args := []string{"1 = 1"}, []any{}

	if opts.Category != nil {
		if opts.SameCategory {
			where = append(where, "category = "+placeholder(len(args)+1))
		} else {
			where = append(where, "category <> "+placeholder(len(args)+1))
		}
		args = append(args, *opts.Category)
	}

	vector := pgvector.NewVector(opts.Vector)
	distanceArg := placeholder(len(args) + 1)
	args = append(args, vector)
	limitArg := placeholder(len(args) + 1)
	args = append(args, opts.Limit)

	query := `
		SELECT product_id, embedding <=> ` + distanceArg + ` AS distance
		FROM product_embedding
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY distance
		LIMIT ` + limitArg

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search product embeddings")
	}
	defer rows.Close()

	results := []*store.ProductDistance{}
	for rows.Next() {
		var result store.ProductDistance
		if err := rows.Scan(&result.ProductID, &result.Distance); err != nil {
			return nil, errors.Wrap(err, "failed to scan product embedding search result")
		}
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

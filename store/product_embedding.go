package store

import (
	"context"

	"github.com/pkg/errors"
)

// EmbeddingDim is the vector dimension used by the product embedding tables.
// It matches the default embedding model (BAAI/bge-m3).
const EmbeddingDim = 1024

// ProductEmbedding represents the vector embedding of a product name, plus the
// metadata the similarity filter predicates run against.
type ProductEmbedding struct {
	ProductID   int32
	Embedding   []float32
	Category    string
	Subcategory string
	Model       string
	CreatedTs   int64
	UpdatedTs   int64
}

// ProductDistance is a vector search result. Distance is the cosine distance
// to the query vector, lower is closer.
type ProductDistance struct {
	ProductID int32
	Distance  float64
}

// SearchProductEmbeddingsOptions represents the options for product vector search.
type SearchProductEmbeddingsOptions struct {
	Vector []float32
	Limit  int
	// Category restricts the search by category metadata when non-nil:
	// include the category when SameCategory is true, exclude it otherwise.
	Category     *string
	SameCategory bool
}

// Validate validates the SearchProductEmbeddingsOptions.
func (o *SearchProductEmbeddingsOptions) Validate() error {
	if len(o.Vector) == 0 {
		return errors.New("vector cannot be empty")
	}
	if o.Limit < 0 {
		return errors.Errorf("limit cannot be negative: %d", o.Limit)
	}
	if o.Limit == 0 {
		o.Limit = 4 // Default limit
	}
	if o.Limit > 100 {
		return errors.Errorf("limit too large (max 100): %d", o.Limit)
	}
	if o.Category != nil && *o.Category == "" {
		return errors.New("category filter cannot be empty")
	}
	return nil
}

// UpsertProductEmbedding inserts or updates a product embedding.
func (s *Store) UpsertProductEmbedding(ctx context.Context, upsert *ProductEmbedding) error {
	return s.driver.UpsertProductEmbedding(ctx, upsert)
}

// SearchProductEmbeddings performs vector similarity search on product embeddings.
func (s *Store) SearchProductEmbeddings(ctx context.Context, opts *SearchProductEmbeddingsOptions) ([]*ProductDistance, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return s.driver.SearchProductEmbeddings(ctx, opts)
}

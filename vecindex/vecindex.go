// Package vecindex provides the vector index over product-name embeddings.
// It is the only similarity capability the recommendation pipeline consumes.
package vecindex

import "context"

// Document is a product to index under a stable id with its filter metadata.
type Document struct {
	ProductID   int32
	Text        string
	Category    string
	Subcategory string
}

// Match is a single ranked query result. Distance is a cosine distance,
// lower means a closer match.
type Match struct {
	ProductID int32
	Distance  float64
}

// Filter restricts a query by category metadata: include the category when
// SameCategory is true, exclude it otherwise. A nil filter searches globally.
type Filter struct {
	Category     string
	SameCategory bool
}

// Index is the vector index capability.
type Index interface {
	// Upsert idempotently replaces or inserts the embedding and metadata
	// for the document's product id.
	Upsert(ctx context.Context, doc *Document) error

	// Query returns up to topN matches closest to the query text, ordered by
	// ascending distance, respecting the filter when present.
	Query(ctx context.Context, text string, topN int, filter *Filter) ([]Match, error)
}

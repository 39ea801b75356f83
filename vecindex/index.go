package vecindex

import (
	"context"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
)

// embeddingStore is the slice of the store the index needs.
type embeddingStore interface {
	UpsertProductEmbedding(ctx context.Context, upsert *store.ProductEmbedding) error
	SearchProductEmbeddings(ctx context.Context, opts *store.SearchProductEmbeddingsOptions) ([]*store.ProductDistance, error)
}

type storeIndex struct {
	embedder Embedder
	store    embeddingStore
	model    string
}

// NewIndex creates an Index that embeds text through the given Embedder and
// persists/searches vectors through the store driver.
func NewIndex(embedder Embedder, st embeddingStore, model string) Index {
	return &storeIndex{
		embedder: embedder,
		store:    st,
		model:    model,
	}
}

func (i *storeIndex) Upsert(ctx context.Context, doc *Document) error {
	vector, err := i.embedder.Embed(ctx, doc.Text)
	if err != nil {
		return errors.Wrapf(err, "failed to embed product %d", doc.ProductID)
	}

	return i.store.UpsertProductEmbedding(ctx, &store.ProductEmbedding{
		ProductID:   doc.ProductID,
		Embedding:   vector,
		Category:    doc.Category,
		Subcategory: doc.Subcategory,
		Model:       i.model,
	})
}

func (i *storeIndex) Query(ctx context.Context, text string, topN int, filter *Filter) ([]Match, error) {
	vector, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "failed to embed query")
	}

	opts := &store.SearchProductEmbeddingsOptions{
		Vector: vector,
		Limit:  topN,
	}
	if filter != nil {
		opts.Category = &filter.Category
		opts.SameCategory = filter.SameCategory
	}

	results, err := i.store.SearchProductEmbeddings(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search product embeddings")
	}

	matches := make([]Match, 0, len(results))
	for _, result := range results {
		matches = append(matches, Match{ProductID: result.ProductID, Distance: result.Distance})
	}
	return matches, nil
}

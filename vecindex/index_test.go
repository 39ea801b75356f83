package vecindex

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/store"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

func (f *fakeEmbedder) Dimensions() int { return len(f.vector) }

type fakeEmbeddingStore struct {
	upserted []*store.ProductEmbedding
	lastOpts *store.SearchProductEmbeddingsOptions
	results  []*store.ProductDistance
}

func (f *fakeEmbeddingStore) UpsertProductEmbedding(_ context.Context, upsert *store.ProductEmbedding) error {
	f.upserted = append(f.upserted, upsert)
	return nil
}

func (f *fakeEmbeddingStore) SearchProductEmbeddings(_ context.Context, opts *store.SearchProductEmbeddingsOptions) ([]*store.ProductDistance, error) {
	f.lastOpts = opts
	return f.results, nil
}

func TestIndexUpsert(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	st := &fakeEmbeddingStore{}
	index := NewIndex(embedder, st, "BAAI/bge-m3")

	err := index.Upsert(context.Background(), &Document{
		ProductID:   42,
		Text:        "iPad Pro",
		Category:    "Electronics",
		Subcategory: "Tablets",
	})

	require.NoError(t, err)
	require.Len(t, st.upserted, 1)
	assert.Equal(t, int32(42), st.upserted[0].ProductID)
	assert.Equal(t, "Electronics", st.upserted[0].Category)
	assert.Equal(t, "BAAI/bge-m3", st.upserted[0].Model)
	assert.Equal(t, []float32{0.1, 0.2}, st.upserted[0].Embedding)
}

func TestIndexQuery_WithFilter(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	st := &fakeEmbeddingStore{
		results: []*store.ProductDistance{
			{ProductID: 5, Distance: 0.10},
			{ProductID: 6, Distance: 0.20},
		},
	}
	index := NewIndex(embedder, st, "BAAI/bge-m3")

	matches, err := index.Query(context.Background(), "iPad Pro", 4, &Filter{
		Category:     "Tablets",
		SameCategory: false,
	})

	require.NoError(t, err)
	assert.Equal(t, []Match{{ProductID: 5, Distance: 0.10}, {ProductID: 6, Distance: 0.20}}, matches)
	require.NotNil(t, st.lastOpts.Category)
	assert.Equal(t, "Tablets", *st.lastOpts.Category)
	assert.False(t, st.lastOpts.SameCategory)
	assert.Equal(t, 4, st.lastOpts.Limit)
}

func TestIndexQuery_NoFilterSearchesGlobally(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	st := &fakeEmbeddingStore{}
	index := NewIndex(embedder, st, "BAAI/bge-m3")

	_, err := index.Query(context.Background(), "anything", 4, nil)

	require.NoError(t, err)
	assert.Nil(t, st.lastOpts.Category)
}

func TestIndexQuery_EmbedFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("backend unreachable")}
	st := &fakeEmbeddingStore{}
	index := NewIndex(embedder, st, "BAAI/bge-m3")

	_, err := index.Query(context.Background(), "anything", 4, nil)

	require.Error(t, err)
	assert.Nil(t, st.lastOpts, "store must not be queried when embedding fails")
}

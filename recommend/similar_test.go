package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/store"
	"github.com/avillega/shoprec/vecindex"
)

func TestFindSimilar_CategoryRequired(t *testing.T) {
	index := newFakeIndex()
	service := NewService(newFakeCatalogStore(), index, nil)

	_, err := service.FindSimilar(context.Background(), &FindSimilarOptions{
		Query:        "iPad Pro",
		AddCondition: true,
	})

	require.ErrorIs(t, err, ErrCategoryRequired)
	assert.Zero(t, index.queries, "index must not be queried on a rejected filter")
}

func TestFindSimilar_SameCategoryByDefault(t *testing.T) {
	index := newFakeIndex()
	service := NewService(newFakeCatalogStore(), index, nil)

	_, err := service.FindSimilar(context.Background(), &FindSimilarOptions{
		Query:        "iPad Pro",
		Category:     "Tablets",
		AddCondition: true,
	})

	require.NoError(t, err)
	filter := index.filters["iPad Pro"]
	require.NotNil(t, filter)
	assert.Equal(t, "Tablets", filter.Category)
	assert.True(t, filter.SameCategory)
}

func TestFindSimilar_ExcludeCategory(t *testing.T) {
	index := newFakeIndex()
	service := NewService(newFakeCatalogStore(), index, nil)
	sameCategory := false

	_, err := service.FindSimilar(context.Background(), &FindSimilarOptions{
		Query:        "iPad Pro",
		Category:     "Tablets",
		AddCondition: true,
		SameCategory: &sameCategory,
	})

	require.NoError(t, err)
	require.NotNil(t, index.filters["iPad Pro"])
	assert.False(t, index.filters["iPad Pro"].SameCategory)
}

func TestFindSimilar_NoConditionSearchesGlobally(t *testing.T) {
	index := newFakeIndex()
	service := NewService(newFakeCatalogStore(), index, nil)

	_, err := service.FindSimilar(context.Background(), &FindSimilarOptions{Query: "iPad Pro"})

	require.NoError(t, err)
	assert.Nil(t, index.filters["iPad Pro"])
}

func TestFindSimilar_DropsVanishedProducts(t *testing.T) {
	index := newFakeIndex()
	index.matches["iPad Pro"] = []vecindex.Match{
		{ProductID: 99, Distance: 0.05},
		{ProductID: 10, Distance: 0.10},
	}
	st := newFakeCatalogStore(&store.Product{ID: 10, Name: "Galaxy Tab"})
	service := NewService(st, index, nil)

	results, err := service.FindSimilar(context.Background(), &FindSimilarOptions{Query: "iPad Pro"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int32(10), results[0].Product.ID)
	assert.Equal(t, 0.10, results[0].Distance)
}

func TestFindSimilar_EmptyQuery(t *testing.T) {
	service := NewService(newFakeCatalogStore(), newFakeIndex(), nil)

	_, err := service.FindSimilar(context.Background(), &FindSimilarOptions{})

	require.Error(t, err)
}

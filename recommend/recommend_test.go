package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/store"
	"github.com/avillega/shoprec/vecindex"
)

type fakeIndex struct {
	mu      sync.Mutex
	matches map[string][]vecindex.Match
	filters map[string]*vecindex.Filter
	queries int
	err     error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		matches: map[string][]vecindex.Match{},
		filters: map[string]*vecindex.Filter{},
	}
}

func (f *fakeIndex) Upsert(_ context.Context, _ *vecindex.Document) error {
	return nil
}

func (f *fakeIndex) Query(_ context.Context, text string, _ int, filter *vecindex.Filter) ([]vecindex.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	f.filters[text] = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.matches[text], nil
}

type fakeCatalogStore struct {
	products map[int32]*store.Product
	existing *store.Recommendation

	nextItemID   int32
	itemsByScore map[float64]*store.RecommendationItem
	created      *store.Recommendation
	createdItems []int32
	storeErr     error
}

func newFakeCatalogStore(products ...*store.Product) *fakeCatalogStore {
	byID := map[int32]*store.Product{}
	for _, product := range products {
		byID[product.ID] = product
	}
	return &fakeCatalogStore{
		products:     byID,
		itemsByScore: map[float64]*store.RecommendationItem{},
	}
}

func (f *fakeCatalogStore) GetProductsByIDs(_ context.Context, ids []int32) ([]*store.Product, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	list := []*store.Product{}
	for _, id := range ids {
		if product, ok := f.products[id]; ok {
			list = append(list, product)
		}
	}
	return list, nil
}

func (f *fakeCatalogStore) GetOrCreateRecommendationItem(_ context.Context, get *store.GetOrCreateRecommendationItem) (*store.RecommendationItem, bool, error) {
	if item, ok := f.itemsByScore[get.Score]; ok {
		return item, false, nil
	}
	f.nextItemID++
	item := &store.RecommendationItem{
		ID:     f.nextItemID,
		Score:  get.Score,
		Metric: get.Metric,
	}
	for _, id := range get.ProductIDs {
		item.Products = append(item.Products, f.products[id])
	}
	f.itemsByScore[get.Score] = item
	return item, true, nil
}

func (f *fakeCatalogStore) CreateRecommendation(_ context.Context, create *store.Recommendation, itemIDs []int32) (*store.Recommendation, error) {
	create.ID = 1
	create.UID = "rec-test"
	f.created = create
	f.createdItems = itemIDs
	return create, nil
}

func (f *fakeCatalogStore) GetRecommendationBySaleID(_ context.Context, _ int32) (*store.Recommendation, error) {
	return f.existing, nil
}

func tabletSale() *store.Sale {
	return &store.Sale{
		ID:       7,
		ClientID: 3,
		Products: []*store.Product{
			{ID: 1, Name: "Tablet A", CategoryName: "Tablets"},
			{ID: 2, Name: "Tablet B", CategoryName: "Tablets"},
		},
	}
}

func TestCreateForSale_AggregatesNeighbors(t *testing.T) {
	index := newFakeIndex()
	index.matches["Tablet A"] = []vecindex.Match{
		{ProductID: 10, Distance: 0.10},
		{ProductID: 11, Distance: 0.20},
	}
	index.matches["Tablet B"] = []vecindex.Match{
		{ProductID: 12, Distance: 0.30},
		{ProductID: 13, Distance: 0.10},
	}
	st := newFakeCatalogStore(
		&store.Product{ID: 10, Name: "Stylus"},
		&store.Product{ID: 11, Name: "Keyboard"},
		&store.Product{ID: 12, Name: "Sleeve"},
		&store.Product{ID: 13, Name: "Charger"},
	)
	service := NewService(st, index, nil)

	recommendation, err := service.CreateForSale(context.Background(), tabletSale())

	require.NoError(t, err)
	assert.Equal(t, int32(7), recommendation.SaleID)
	assert.Equal(t, int32(3), recommendation.ClientID)
	// Four distances averaged, two of them identical: (0.10+0.20+0.30+0.10)/4.
	assert.Equal(t, 0.18, recommendation.ConfidenceScore)
	// Duplicate distance reuses the same item, so three items link the sale.
	assert.Equal(t, []int32{1, 2, 3}, st.createdItems)

	// The reused item keeps its original product association only.
	reused := st.itemsByScore[0.10]
	require.Len(t, reused.Products, 1)
	assert.Equal(t, int32(10), reused.Products[0].ID)
}

func TestCreateForSale_FiltersOutOwnCategory(t *testing.T) {
	index := newFakeIndex()
	st := newFakeCatalogStore()
	service := NewService(st, index, nil)

	_, err := service.CreateForSale(context.Background(), tabletSale())

	require.ErrorIs(t, err, ErrNoRecommendations)
	filter := index.filters["Tablet A"]
	require.NotNil(t, filter)
	assert.Equal(t, "Tablets", filter.Category)
	assert.False(t, filter.SameCategory)
}

func TestCreateForSale_ExistingRecommendationIsReturned(t *testing.T) {
	index := newFakeIndex()
	st := newFakeCatalogStore()
	st.existing = &store.Recommendation{ID: 9, UID: "rec-existing", SaleID: 7}
	service := NewService(st, index, nil)

	recommendation, err := service.CreateForSale(context.Background(), tabletSale())

	require.NoError(t, err)
	assert.Equal(t, "rec-existing", recommendation.UID)
	assert.Zero(t, index.queries, "index must not be queried again for a recommended sale")
}

func TestCreateForSale_EmptySale(t *testing.T) {
	service := NewService(newFakeCatalogStore(), newFakeIndex(), nil)

	_, err := service.CreateForSale(context.Background(), &store.Sale{ID: 7, ClientID: 3})

	require.ErrorIs(t, err, ErrNoRecommendations)
}

func TestCreateForSale_DeletedProductStillCounts(t *testing.T) {
	index := newFakeIndex()
	index.matches["Tablet A"] = []vecindex.Match{
		{ProductID: 10, Distance: 0.10},
		{ProductID: 99, Distance: 0.30},
	}
	sale := tabletSale()
	sale.Products = sale.Products[:1]
	st := newFakeCatalogStore(&store.Product{ID: 10, Name: "Stylus"})
	service := NewService(st, index, nil)

	recommendation, err := service.CreateForSale(context.Background(), sale)

	require.NoError(t, err)
	// The vanished product contributes its distance but yields no item.
	assert.Equal(t, 0.2, recommendation.ConfidenceScore)
	assert.Equal(t, []int32{1}, st.createdItems)
}

func TestCreateForSale_IndexError(t *testing.T) {
	index := newFakeIndex()
	index.err = errors.New("backend unreachable")
	st := newFakeCatalogStore()
	service := NewService(st, index, nil)

	_, err := service.CreateForSale(context.Background(), tabletSale())

	require.Error(t, err)
	assert.Nil(t, st.created)
}

func TestConfidenceScoreRounding(t *testing.T) {
	assert.Equal(t, 0.18, confidenceScore([]float64{0.10, 0.20, 0.30, 0.10}))
	assert.Equal(t, 0.33, confidenceScore([]float64{1.0 / 3.0}))
	assert.Equal(t, 0.1, confidenceScore([]float64{0.1}))
}

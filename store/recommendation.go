package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"
)

// MetricCosineDistance tags recommendation scores that hold a cosine distance,
// where a smaller value means a closer match.
const MetricCosineDistance = "cosine_distance"

// RecommendationItem is a scored recommendation line-item. Items are unique per
// exact score value: repeated similarity hits with a bit-identical distance
// reuse the same row instead of creating a duplicate.
type RecommendationItem struct {
	ID    int32
	Score float64
	// Metric names the measure stored in Score.
	Metric    string
	Products  []*Product
	CreatedTs int64
	UpdatedTs int64
}

// Recommendation links a sale and its client to the set of recommended items.
type Recommendation struct {
	ID       int32
	UID      string
	SaleID   int32
	ClientID int32
	// ConfidenceScore is the mean distance across all items, rounded to two
	// decimal places.
	ConfidenceScore float64
	WasPurchased    bool
	Reason          string
	Items           []*RecommendationItem
	CreatedTs       int64
	UpdatedTs       int64
}

// GetOrCreateRecommendationItem is the lookup-or-create condition for
// recommendation items. ProductIDs are attached only when the item is created;
// an existing item keeps its product associations untouched.
type GetOrCreateRecommendationItem struct {
	Score      float64
	Metric     string
	ProductIDs []int32
}

// Validate validates the GetOrCreateRecommendationItem condition.
func (g *GetOrCreateRecommendationItem) Validate() error {
	if g.Score < 0 {
		return errors.Errorf("score cannot be negative: %f", g.Score)
	}
	if g.Metric == "" {
		g.Metric = MetricCosineDistance
	}
	return nil
}

// UpdateRecommendation is the update condition for recommendations. Only
// non-nil fields are applied; the pipeline itself never updates a
// recommendation after creation.
type UpdateRecommendation struct {
	ID           int32
	WasPurchased *bool
	Reason       *string
}

// GetOrCreateRecommendationItem returns the item stored under the exact score
// value, creating it first when absent. The second return value reports
// whether a new item was created.
func (s *Store) GetOrCreateRecommendationItem(ctx context.Context, get *GetOrCreateRecommendationItem) (*RecommendationItem, bool, error) {
	if err := get.Validate(); err != nil {
		return nil, false, err
	}
	return s.driver.GetOrCreateRecommendationItem(ctx, get)
}

// CreateRecommendation creates a recommendation row linking the sale, the
// client and the given item set.
func (s *Store) CreateRecommendation(ctx context.Context, create *Recommendation, itemIDs []int32) (*Recommendation, error) {
	if create.SaleID <= 0 {
		return nil, errors.New("recommendation requires a sale")
	}
	if create.ClientID <= 0 {
		return nil, errors.New("recommendation requires a client")
	}
	if create.UID == "" {
		create.UID = shortuuid.New()
	}
	return s.driver.CreateRecommendation(ctx, create, itemIDs)
}

// GetRecommendationBySaleID returns the sale's recommendation with its items
// loaded, or nil when none exists.
func (s *Store) GetRecommendationBySaleID(ctx context.Context, saleID int32) (*Recommendation, error) {
	return s.driver.GetRecommendationBySaleID(ctx, saleID)
}

// UpdateRecommendation applies downstream updates, e.g. flipping WasPurchased
// once the client bought a recommended product.
func (s *Store) UpdateRecommendation(ctx context.Context, update *UpdateRecommendation) (*Recommendation, error) {
	return s.driver.UpdateRecommendation(ctx, update)
}

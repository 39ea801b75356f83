// Package recommend turns finalized sales into product recommendations by
// querying the vector index for the nearest neighbors of each sold product.
package recommend

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/avillega/shoprec/store"
	"github.com/avillega/shoprec/vecindex"
)

// maxConcurrentQueries bounds the parallel index queries per sale.
const maxConcurrentQueries = 4

// catalogStore is the slice of the store the recommendation service needs.
type catalogStore interface {
	GetProductsByIDs(ctx context.Context, ids []int32) ([]*store.Product, error)
	GetOrCreateRecommendationItem(ctx context.Context, get *store.GetOrCreateRecommendationItem) (*store.RecommendationItem, bool, error)
	CreateRecommendation(ctx context.Context, create *store.Recommendation, itemIDs []int32) (*store.Recommendation, error)
	GetRecommendationBySaleID(ctx context.Context, saleID int32) (*store.Recommendation, error)
}

// Service generates and serves recommendations.
type Service struct {
	store   catalogStore
	index   vecindex.Index
	metrics *Metrics
}

// NewService creates a recommendation service. metrics may be nil.
func NewService(st catalogStore, index vecindex.Index, metrics *Metrics) *Service {
	return &Service{
		store:   st,
		index:   index,
		metrics: metrics,
	}
}

// CreateForSale generates the recommendation for a finalized sale. For each
// sold product it queries the index for neighbors outside the product's own
// category, then aggregates the matches into score-keyed items. Matches whose
// product has left the catalog still count toward the confidence score but
// produce no item. When the sale already has a recommendation it is returned
// unchanged.
func (s *Service) CreateForSale(ctx context.Context, sale *store.Sale) (*store.Recommendation, error) {
	if sale == nil {
		return nil, errors.New("sale is required")
	}
	if len(sale.Products) == 0 {
		return nil, ErrNoRecommendations
	}

	existing, err := s.store.GetRecommendationBySaleID(ctx, sale.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check for existing recommendation")
	}
	if existing != nil {
		return existing, nil
	}

	start := time.Now()
	recommendation, err := s.generate(ctx, sale)
	if s.metrics != nil {
		if err != nil {
			s.metrics.Failed.Inc()
		} else {
			s.metrics.Generated.Inc()
			s.metrics.Duration.Observe(time.Since(start).Seconds())
		}
	}
	return recommendation, err
}

func (s *Service) generate(ctx context.Context, sale *store.Sale) (*store.Recommendation, error) {
	matchesByProduct := make([][]vecindex.Match, len(sale.Products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQueries)
	for i, product := range sale.Products {
		i, product := i, product
		g.Go(func() error {
			filter, err := buildFilter(product.CategoryName, product.CategoryName != "", false)
			if err != nil {
				return err
			}
			matches, err := s.index.Query(gctx, product.Name, DefaultTopN, filter)
			if err != nil {
				return errors.Wrapf(err, "failed to query neighbors of product %d", product.ID)
			}
			matchesByProduct[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchedIDs := make([]int32, 0, len(sale.Products)*DefaultTopN)
	for _, matches := range matchesByProduct {
		for _, match := range matches {
			matchedIDs = append(matchedIDs, match.ProductID)
		}
	}
	resolved, err := s.store.GetProductsByIDs(ctx, matchedIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve recommended products")
	}
	inCatalog := make(map[int32]bool, len(resolved))
	for _, product := range resolved {
		inCatalog[product.ID] = true
	}

	distances := []float64{}
	itemIDs := []int32{}
	seenItems := map[int32]bool{}
	for _, matches := range matchesByProduct {
		for _, match := range matches {
			distances = append(distances, match.Distance)
			if !inCatalog[match.ProductID] {
				continue
			}
			item, _, err := s.store.GetOrCreateRecommendationItem(ctx, &store.GetOrCreateRecommendationItem{
				Score:      match.Distance,
				Metric:     store.MetricCosineDistance,
				ProductIDs: []int32{match.ProductID},
			})
			if err != nil {
				return nil, errors.Wrap(err, "failed to get or create recommendation item")
			}
			if !seenItems[item.ID] {
				seenItems[item.ID] = true
				itemIDs = append(itemIDs, item.ID)
			}
		}
	}
	if len(distances) == 0 {
		return nil, ErrNoRecommendations
	}

	return s.store.CreateRecommendation(ctx, &store.Recommendation{
		SaleID:          sale.ID,
		ClientID:        sale.ClientID,
		ConfidenceScore: confidenceScore(distances),
	}, itemIDs)
}

// confidenceScore is the mean distance rounded to two decimal places.
func confidenceScore(distances []float64) float64 {
	sum := 0.0
	for _, distance := range distances {
		sum += distance
	}
	return math.Round(sum/float64(len(distances))*100) / 100
}

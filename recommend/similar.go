package recommend

import (
	"context"

	"github.com/pkg/errors"

	"github.com/avillega/shoprec/store"
	"github.com/avillega/shoprec/vecindex"
)

// DefaultTopN is the number of neighbors requested when the caller does not
// specify one.
const DefaultTopN = 4

// FindSimilarOptions controls a similarity search over the product index.
type FindSimilarOptions struct {
	// Query is the free text to search neighbors for, usually a product name.
	Query string
	// TopN caps the number of matches. Zero means DefaultTopN.
	TopN int
	// Category scopes the search when AddCondition is set.
	Category string
	// AddCondition requests a category filter. Category must be set.
	AddCondition bool
	// SameCategory keeps matches inside Category when true, or excludes the
	// category when false. Nil means true.
	SameCategory *bool
}

// SimilarProduct is a catalog product paired with its distance to the query.
type SimilarProduct struct {
	Product  *store.Product
	Distance float64
}

// buildFilter turns the option pair into an index filter. It fails before any
// backend call when a condition is requested without a category.
func buildFilter(category string, addCondition bool, sameCategory bool) (*vecindex.Filter, error) {
	if !addCondition {
		return nil, nil
	}
	if category == "" {
		return nil, ErrCategoryRequired
	}
	return &vecindex.Filter{
		Category:     category,
		SameCategory: sameCategory,
	}, nil
}

// FindSimilar searches the vector index for products similar to the query
// text and resolves the matches against the catalog. Matches whose product no
// longer exists are dropped. Results keep the index ranking, closest first.
func (s *Service) FindSimilar(ctx context.Context, opts *FindSimilarOptions) ([]*SimilarProduct, error) {
	if opts.Query == "" {
		return nil, errors.New("query is required")
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	sameCategory := true
	if opts.SameCategory != nil {
		sameCategory = *opts.SameCategory
	}

	filter, err := buildFilter(opts.Category, opts.AddCondition, sameCategory)
	if err != nil {
		return nil, err
	}

	matches, err := s.index.Query(ctx, opts.Query, topN, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query product index")
	}

	ids := make([]int32, 0, len(matches))
	for _, match := range matches {
		ids = append(ids, match.ProductID)
	}
	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve products")
	}
	byID := make(map[int32]*store.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	results := make([]*SimilarProduct, 0, len(matches))
	for _, match := range matches {
		product, ok := byID[match.ProductID]
		if !ok {
			continue
		}
		results = append(results, &SimilarProduct{
			Product:  product,
			Distance: match.Distance,
		})
	}
	return results, nil
}

package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/avillega/shoprec/recommend"
)

const (
	minSimilarResults = 1
	maxSimilarResults = 10
)

type FindSimilarRequest struct {
	// Query is the text to search neighbors for, usually a product name.
	Query string `json:"query"`
	// NResults caps the result count, between 1 and 10. Zero means 4.
	NResults int `json:"n_results"`
	// Category scopes the search when AddCondition is true.
	Category     string `json:"category"`
	AddCondition bool   `json:"add_condition"`
	// SameCategory keeps results inside Category when true or omitted.
	SameCategory *bool `json:"same_category"`
}

type SimilarProduct struct {
	Product  *Product `json:"product"`
	Distance float64  `json:"distance"`
}

// FindSimilarProducts handles POST /api/v1/products/similar.
func (s *APIV1Service) FindSimilarProducts(c echo.Context) error {
	ctx := c.Request().Context()
	if s.Recommend == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "similarity search is not configured")
	}

	request := &FindSimilarRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if request.NResults != 0 && (request.NResults < minSimilarResults || request.NResults > maxSimilarResults) {
		return echo.NewHTTPError(http.StatusBadRequest, "n_results must be between 1 and 10")
	}

	results, err := s.Recommend.FindSimilar(ctx, &recommend.FindSimilarOptions{
		Query:        request.Query,
		TopN:         request.NResults,
		Category:     request.Category,
		AddCondition: request.AddCondition,
		SameCategory: request.SameCategory,
	})
	if err != nil {
		if errors.Is(err, recommend.ErrCategoryRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, "category is required when add_condition is set")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to search similar products").SetInternal(err)
	}

	response := make([]*SimilarProduct, 0, len(results))
	for _, result := range results {
		response = append(response, &SimilarProduct{
			Product:  convertProduct(result.Product),
			Distance: result.Distance,
		})
	}
	return c.JSON(http.StatusOK, response)
}

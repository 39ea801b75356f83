package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avillega/shoprec/store"
)

type RecommendationItem struct {
	ID       int32      `json:"id"`
	Score    float64    `json:"score"`
	Metric   string     `json:"metric"`
	Products []*Product `json:"products"`
}

type Recommendation struct {
	ID              int32                 `json:"id"`
	UID             string                `json:"uid"`
	SaleID          int32                 `json:"sale_id"`
	ClientID        int32                 `json:"client_id"`
	ConfidenceScore float64               `json:"confidence_score"`
	WasPurchased    bool                  `json:"was_purchased"`
	Reason          string                `json:"reason"`
	Items           []*RecommendationItem `json:"items"`
	CreatedTs       int64                 `json:"created_ts"`
}

type UpdateRecommendationRequest struct {
	WasPurchased *bool   `json:"was_purchased"`
	Reason       *string `json:"reason"`
}

func convertRecommendation(recommendation *store.Recommendation) *Recommendation {
	items := make([]*RecommendationItem, 0, len(recommendation.Items))
	for _, item := range recommendation.Items {
		products := make([]*Product, 0, len(item.Products))
		for _, product := range item.Products {
			products = append(products, convertProduct(product))
		}
		items = append(items, &RecommendationItem{
			ID:       item.ID,
			Score:    item.Score,
			Metric:   item.Metric,
			Products: products,
		})
	}
	return &Recommendation{
		ID:              recommendation.ID,
		UID:             recommendation.UID,
		SaleID:          recommendation.SaleID,
		ClientID:        recommendation.ClientID,
		ConfidenceScore: recommendation.ConfidenceScore,
		WasPurchased:    recommendation.WasPurchased,
		Reason:          recommendation.Reason,
		Items:           items,
		CreatedTs:       recommendation.CreatedTs,
	}
}

// UpdateRecommendation handles PATCH /api/v1/recommendations/:id. Only
// was_purchased and reason can change; the item set is immutable.
func (s *APIV1Service) UpdateRecommendation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recommendation id").SetInternal(err)
	}

	request := &UpdateRecommendationRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if request.WasPurchased == nil && request.Reason == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	recommendation, err := s.Store.UpdateRecommendation(ctx, &store.UpdateRecommendation{
		ID:           int32(id),
		WasPurchased: request.WasPurchased,
		Reason:       request.Reason,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update recommendation").SetInternal(err)
	}
	if recommendation == nil {
		return echo.NewHTTPError(http.StatusNotFound, "recommendation not found")
	}

	return c.JSON(http.StatusOK, convertRecommendation(recommendation))
}

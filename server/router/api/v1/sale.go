package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avillega/shoprec/recommend"
	"github.com/avillega/shoprec/store"
)

type CreateSaleRequest struct {
	ClientID      int32   `json:"client_id"`
	ShopID        int32   `json:"shop_id"`
	Total         float64 `json:"total"`
	PaymentMethod string  `json:"payment_method"`
	ProductIDs    []int32 `json:"product_ids"`
}

type Sale struct {
	ID            int32      `json:"id"`
	ClientID      int32      `json:"client_id"`
	ShopID        int32      `json:"shop_id"`
	Total         float64    `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	Products      []*Product `json:"products"`
	CreatedTs     int64      `json:"created_ts"`
}

func convertSale(sale *store.Sale) *Sale {
	products := make([]*Product, 0, len(sale.Products))
	for _, product := range sale.Products {
		products = append(products, convertProduct(product))
	}
	return &Sale{
		ID:            sale.ID,
		ClientID:      sale.ClientID,
		ShopID:        sale.ShopID,
		Total:         sale.Total,
		PaymentMethod: string(sale.PaymentMethod),
		Products:      products,
		CreatedTs:     sale.CreatedTs,
	}
}

// CreateSale handles POST /api/v1/sales. Once the sale is stored its product
// set is final, so the recommendation pipeline is notified here. A pipeline
// failure never fails the sale.
func (s *APIV1Service) CreateSale(c echo.Context) error {
	ctx := c.Request().Context()

	request := &CreateSaleRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request").SetInternal(err)
	}
	if len(request.ProductIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_ids is required")
	}

	sale, err := s.Store.CreateSale(ctx, &store.Sale{
		ClientID:      request.ClientID,
		ShopID:        request.ShopID,
		Total:         request.Total,
		PaymentMethod: store.PaymentMethod(request.PaymentMethod),
	}, request.ProductIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to create sale").SetInternal(err)
	}

	if s.Notifier != nil {
		s.Notifier.Publish(&recommend.SaleProductsFinalized{Sale: sale})
	}

	return c.JSON(http.StatusCreated, convertSale(sale))
}

// GetSaleRecommendation handles GET /api/v1/sales/:id/recommendation.
func (s *APIV1Service) GetSaleRecommendation(c echo.Context) error {
	ctx := c.Request().Context()

	saleID, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sale id").SetInternal(err)
	}

	recommendation, err := s.Store.GetRecommendationBySaleID(ctx, int32(saleID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get recommendation").SetInternal(err)
	}
	if recommendation == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no recommendation for sale")
	}

	return c.JSON(http.StatusOK, convertRecommendation(recommendation))
}

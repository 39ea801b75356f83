package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avillega/shoprec/store"
)

type Product struct {
	ID          int32   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int32   `json:"stock"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
}

type SubCategory struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Category struct {
	ID            int32          `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Subcategories []*SubCategory `json:"subcategories"`
}

func convertProduct(product *store.Product) *Product {
	return &Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		Category:    product.CategoryName,
		Subcategory: product.SubcategoryName,
	}
}

// ListProducts handles GET /api/v1/products.
func (s *APIV1Service) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	find := &store.FindProduct{}
	if categoryID := c.QueryParam("category_id"); categoryID != "" {
		id, err := strconv.ParseInt(categoryID, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category_id").SetInternal(err)
		}
		id32 := int32(id)
		find.CategoryID = &id32
	}
	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		find.Limit = n
	}
	if offset := c.QueryParam("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset")
		}
		find.Offset = n
	}

	products, err := s.Store.ListProducts(ctx, find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list products").SetInternal(err)
	}

	response := make([]*Product, 0, len(products))
	for _, product := range products {
		response = append(response, convertProduct(product))
	}
	return c.JSON(http.StatusOK, response)
}

// ListCategories handles GET /api/v1/products/categories. Subcategories are
// nested under their category.
func (s *APIV1Service) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := s.Store.ListCategories(ctx, &store.FindCategory{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list categories").SetInternal(err)
	}
	subcategories, err := s.Store.ListSubCategories(ctx, &store.FindSubCategory{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list subcategories").SetInternal(err)
	}

	byCategory := map[int32][]*SubCategory{}
	for _, subcategory := range subcategories {
		byCategory[subcategory.CategoryID] = append(byCategory[subcategory.CategoryID], &SubCategory{
			ID:          subcategory.ID,
			Name:        subcategory.Name,
			Description: subcategory.Description,
		})
	}

	response := make([]*Category, 0, len(categories))
	for _, category := range categories {
		nested := byCategory[category.ID]
		if nested == nil {
			nested = []*SubCategory{}
		}
		response = append(response, &Category{
			ID:            category.ID,
			Name:          category.Name,
			Description:   category.Description,
			Subcategories: nested,
		})
	}
	return c.JSON(http.StatusOK, response)
}

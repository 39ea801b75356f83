// Package v1 exposes the shoprec REST API.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/avillega/shoprec/internal/profile"
	"github.com/avillega/shoprec/recommend"
	"github.com/avillega/shoprec/store"
)

type APIV1Service struct {
	Profile *profile.Profile
	Store   *store.Store
	// Recommend is nil when no embedding endpoint is configured.
	Recommend *recommend.Service
	// Notifier is nil when the recommendation pipeline is disabled.
	Notifier *recommend.Notifier
}

func NewAPIV1Service(instanceProfile *profile.Profile, storeInstance *store.Store, recommendService *recommend.Service, notifier *recommend.Notifier) *APIV1Service {
	return &APIV1Service{
		Profile:   instanceProfile,
		Store:     storeInstance,
		Recommend: recommendService,
		Notifier:  notifier,
	}
}

// RegisterRoutes registers the REST endpoints on the Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.GET("/products", s.ListProducts)
	g.GET("/products/categories", s.ListCategories)
	g.POST("/products/similar", s.FindSimilarProducts)

	g.POST("/sales", s.CreateSale)
	g.GET("/sales/:id/recommendation", s.GetSaleRecommendation)

	g.PATCH("/recommendations/:id", s.UpdateRecommendation)
}

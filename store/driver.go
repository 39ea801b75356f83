package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for database drivers.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	Migrate(ctx context.Context) error

	// Shop model related methods.
	CreateShop(ctx context.Context, create *Shop) (*Shop, error)
	ListShops(ctx context.Context, find *FindShop) ([]*Shop, error)

	// Client model related methods.
	CreateClient(ctx context.Context, create *Client) (*Client, error)
	ListClients(ctx context.Context, find *FindClient) ([]*Client, error)

	// Category model related methods.
	CreateCategory(ctx context.Context, create *Category) (*Category, error)
	ListCategories(ctx context.Context, find *FindCategory) ([]*Category, error)
	CreateSubCategory(ctx context.Context, create *SubCategory) (*SubCategory, error)
	ListSubCategories(ctx context.Context, find *FindSubCategory) ([]*SubCategory, error)

	// Product model related methods.
	CreateProduct(ctx context.Context, create *Product) (*Product, error)
	ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error)

	// Sale model related methods.
	CreateSale(ctx context.Context, create *Sale, productIDs []int32) (*Sale, error)
	GetSale(ctx context.Context, id int32) (*Sale, error)

	// Product embedding related methods.
	UpsertProductEmbedding(ctx context.Context, upsert *ProductEmbedding) error
	SearchProductEmbeddings(ctx context.Context, opts *SearchProductEmbeddingsOptions) ([]*ProductDistance, error)

	// Recommendation model related methods.
	GetOrCreateRecommendationItem(ctx context.Context, get *GetOrCreateRecommendationItem) (*RecommendationItem, bool, error)
	CreateRecommendation(ctx context.Context, create *Recommendation, itemIDs []int32) (*Recommendation, error)
	GetRecommendationBySaleID(ctx context.Context, saleID int32) (*Recommendation, error)
	UpdateRecommendation(ctx context.Context, update *UpdateRecommendation) (*Recommendation, error)
}

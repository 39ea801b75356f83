package store

import "context"

// Category is a top level product category.
type Category struct {
	ID          int32
	Name        string
	Description string
	CreatedTs   int64
	UpdatedTs   int64
}

// SubCategory is a product subcategory inside a category.
type SubCategory struct {
	ID          int32
	Name        string
	Description string
	CategoryID  int32
	CreatedTs   int64
	UpdatedTs   int64
}

// Product represents a catalog product. CategoryName and SubcategoryName are
// joined in on read and ignored on write.
type Product struct {
	ID              int32
	Name            string
	Description     string
	Price           float64
	Stock           int32
	ImageURL        string
	CategoryID      int32
	CategoryName    string
	SubcategoryID   int32
	SubcategoryName string
	CreatedTs       int64
	UpdatedTs       int64
}

// FindCategory is the find condition for categories.
type FindCategory struct {
	ID   *int32
	Name *string
}

// FindSubCategory is the find condition for subcategories.
type FindSubCategory struct {
	ID         *int32
	CategoryID *int32
}

// FindProduct is the find condition for products.
type FindProduct struct {
	ID         *int32
	IDs        []int32
	CategoryID *int32
	Limit      int
	Offset     int
}

func (s *Store) CreateCategory(ctx context.Context, create *Category) (*Category, error) {
	return s.driver.CreateCategory(ctx, create)
}

func (s *Store) ListCategories(ctx context.Context, find *FindCategory) ([]*Category, error) {
	return s.driver.ListCategories(ctx, find)
}

func (s *Store) CreateSubCategory(ctx context.Context, create *SubCategory) (*SubCategory, error) {
	return s.driver.CreateSubCategory(ctx, create)
}

func (s *Store) ListSubCategories(ctx context.Context, find *FindSubCategory) ([]*SubCategory, error) {
	return s.driver.ListSubCategories(ctx, find)
}

func (s *Store) CreateProduct(ctx context.Context, create *Product) (*Product, error) {
	return s.driver.CreateProduct(ctx, create)
}

func (s *Store) ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error) {
	return s.driver.ListProducts(ctx, find)
}

func (s *Store) GetProduct(ctx context.Context, id int32) (*Product, error) {
	list, err := s.driver.ListProducts(ctx, &FindProduct{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// GetProductsByIDs resolves catalog products for the given ids, preserving the
// input order. Unknown ids are skipped.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int32) ([]*Product, error) {
	if len(ids) == 0 {
		return []*Product{}, nil
	}
	list, err := s.driver.ListProducts(ctx, &FindProduct{IDs: ids})
	if err != nil {
		return nil, err
	}

	byID := make(map[int32]*Product, len(list))
	for _, product := range list {
		byID[product.ID] = product
	}

	ordered := make([]*Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := byID[id]; ok {
			ordered = append(ordered, product)
		}
	}
	return ordered, nil
}

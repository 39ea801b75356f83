package store

import "context"

// Shop represents a physical store location where sales happen.
type Shop struct {
	ID          int32
	Name        string
	Description string
	// LocalNumber is the number of the place where the shop is located.
	LocalNumber string
	CreatedTs   int64
	UpdatedTs   int64
}

// FindShop is the find condition for shops.
type FindShop struct {
	ID *int32
}

func (s *Store) CreateShop(ctx context.Context, create *Shop) (*Shop, error) {
	return s.driver.CreateShop(ctx, create)
}

func (s *Store) ListShops(ctx context.Context, find *FindShop) ([]*Shop, error) {
	return s.driver.ListShops(ctx, find)
}

func (s *Store) GetShop(ctx context.Context, id int32) (*Shop, error) {
	list, err := s.driver.ListShops(ctx, &FindShop{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

package store

import (
	"context"

	"github.com/pkg/errors"
)

// PaymentMethod of a sale.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCredit   PaymentMethod = "credit"
	PaymentDebit    PaymentMethod = "debit"
	PaymentTransfer PaymentMethod = "transfer"
)

// IsValid reports whether the payment method is one of the known values.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentDebit, PaymentTransfer:
		return true
	}
	return false
}

// Sale represents a finalized sale. Products carries the sold product set,
// loaded on read.
type Sale struct {
	ID            int32
	ClientID      int32
	ShopID        int32
	Total         float64
	PaymentMethod PaymentMethod
	Products      []*Product
	CreatedTs     int64
	UpdatedTs     int64
}

func (s *Store) CreateSale(ctx context.Context, create *Sale, productIDs []int32) (*Sale, error) {
	if create.ClientID <= 0 {
		return nil, errors.New("sale requires a client")
	}
	if create.ShopID <= 0 {
		return nil, errors.New("sale requires a shop")
	}
	if !create.PaymentMethod.IsValid() {
		return nil, errors.Errorf("invalid payment method: %s", create.PaymentMethod)
	}
	return s.driver.CreateSale(ctx, create, productIDs)
}

// GetSale returns the sale with its product set loaded, or nil when not found.
func (s *Store) GetSale(ctx context.Context, id int32) (*Sale, error) {
	return s.driver.GetSale(ctx, id)
}

package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillega/shoprec/store"
)

func TestNotifierDispatchesInOrder(t *testing.T) {
	var mu sync.Mutex
	received := []int32{}
	notifier := NewNotifier(func(_ context.Context, event *SaleProductsFinalized) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.Sale.ID)
	})

	sale := tabletSale()
	notifier.Publish(&SaleProductsFinalized{Sale: sale})
	second := tabletSale()
	second.ID = 8
	notifier.Publish(&SaleProductsFinalized{Sale: second})
	notifier.Close()

	assert.Equal(t, []int32{7, 8}, received)
}

func TestNotifierIgnoresSalesWithoutProducts(t *testing.T) {
	calls := 0
	notifier := NewNotifier(func(_ context.Context, _ *SaleProductsFinalized) {
		calls++
	})

	notifier.Publish(nil)
	notifier.Publish(&SaleProductsFinalized{Sale: &store.Sale{ID: 7}})
	notifier.Close()

	assert.Zero(t, calls)
}

func TestNotifierRecoversFromHandlerPanic(t *testing.T) {
	var mu sync.Mutex
	received := []int32{}
	notifier := NewNotifier(func(_ context.Context, event *SaleProductsFinalized) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.Sale.ID)
		if event.Sale.ID == 7 {
			panic("boom")
		}
	})

	notifier.Publish(&SaleProductsFinalized{Sale: tabletSale()})
	second := tabletSale()
	second.ID = 8
	notifier.Publish(&SaleProductsFinalized{Sale: second})
	notifier.Close()

	assert.Equal(t, []int32{7, 8}, received, "a panicking handler must not stop later events")
}

func TestHandleSaleProductsFinalized_SwallowsErrors(t *testing.T) {
	index := newFakeIndex()
	index.err = errors.New("backend unreachable")
	st := newFakeCatalogStore()
	service := NewService(st, index, nil)

	require.NotPanics(t, func() {
		service.HandleSaleProductsFinalized(context.Background(), &SaleProductsFinalized{Sale: tabletSale()})
	})
	assert.Nil(t, st.created)
}

package recommend

import (
	"context"
	"log/slog"
	"sync"

	"github.com/avillega/shoprec/store"
)

// SaleProductsFinalized signals that a sale's product set is complete and the
// sale is ready for recommendation generation.
type SaleProductsFinalized struct {
	Sale *store.Sale
}

// Handler consumes sale events.
type Handler func(ctx context.Context, event *SaleProductsFinalized)

// Notifier decouples sale completion from recommendation generation. Events
// are dispatched sequentially to a single handler on a background goroutine,
// so publishers never block on index queries.
type Notifier struct {
	events    chan *SaleProductsFinalized
	handler   Handler
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewNotifier creates a notifier and starts its dispatch loop.
func NewNotifier(handler Handler) *Notifier {
	n := &Notifier{
		events:  make(chan *SaleProductsFinalized, 64),
		handler: handler,
	}
	n.wg.Add(1)
	go n.loop()
	return n
}

func (n *Notifier) loop() {
	defer n.wg.Done()
	for event := range n.events {
		n.dispatch(event)
	}
}

func (n *Notifier) dispatch(event *SaleProductsFinalized) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("recommendation handler panicked", "sale_id", event.Sale.ID, "panic", r)
		}
	}()
	n.handler(context.Background(), event)
}

// Publish enqueues a sale event. Sales without products are ignored. When the
// queue is full the event is dropped rather than blocking the sale flow.
func (n *Notifier) Publish(event *SaleProductsFinalized) {
	if event == nil || event.Sale == nil || len(event.Sale.Products) == 0 {
		return
	}
	select {
	case n.events <- event:
	default:
		slog.Warn("recommendation event dropped, queue is full", "sale_id", event.Sale.ID)
	}
}

// Close stops accepting events and waits for the in-flight dispatch to finish.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() {
		close(n.events)
	})
	n.wg.Wait()
}

// HandleSaleProductsFinalized generates the recommendation for the finalized
// sale. Failures are logged and swallowed so the sale flow never observes
// them.
func (s *Service) HandleSaleProductsFinalized(ctx context.Context, event *SaleProductsFinalized) {
	recommendation, err := s.CreateForSale(ctx, event.Sale)
	if err != nil {
		slog.Error("failed to create recommendation for sale", "sale_id", event.Sale.ID, "error", err)
		return
	}
	slog.Info("recommendation ready for sale",
		"sale_id", event.Sale.ID,
		"recommendation_uid", recommendation.UID,
		"confidence_score", recommendation.ConfidenceScore)
}

package storefront

import (
	"context"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// EventTypeOrderPlaced is published once per accepted submission
const EventTypeOrderPlaced = "storefront.order_placed"

// OrderPlacedEvent is published once an order reached the submitted state
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	Order   Order          `json:"order"`
	Product ProductDetails `json:"product"`
	Totals  OrderTotals    `json:"totals"`
	Report  DispatchReport `json:"report"`
}

// NewOrderPlacedEvent creates the event for a placed order
func NewOrderPlacedEvent(order *Order, product ProductDetails, totals OrderTotals, report DispatchReport) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced),
		Order:           *order,
		Product:         product,
		Totals:          totals,
		Report:          report,
	}
}

// OrderArchive keeps a record of placed orders. Archiving is optional and
// never blocks the order.
type OrderArchive interface {
	Archive(ctx context.Context, event *OrderPlacedEvent) error
}

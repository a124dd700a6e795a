package event

import (
	"context"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var orderPlacedTypes = []string{storefront.EventTypeOrderPlaced}

// OrderLogHandler writes one structured line per placed order
type OrderLogHandler struct {
	logger *zap.Logger
}

// NewOrderLogHandler creates a new OrderLogHandler
func NewOrderLogHandler(logger *zap.Logger) *OrderLogHandler {
	return &OrderLogHandler{logger: logger.Named("orders")}
}

func (h *OrderLogHandler) EventTypes() []string { return orderPlacedTypes }

func (h *OrderLogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*storefront.OrderPlacedEvent)
	if !ok {
		return nil
	}
	h.logger.Info("order placed",
		zap.String("order_id", e.Order.ID.String()),
		zap.Int("quantity", e.Order.Quantity),
		zap.String("model", string(e.Order.Model)),
		zap.String("delivery_state", e.Order.Address.State),
		zap.String("grand_total", e.Totals.GrandTotal.StringFixed(2)),
		zap.Bool("admin_notified", e.Report.AdminSent()),
		zap.Int("notification_failures", len(e.Report.Failures())),
	)
	return nil
}

// OrderMetricsHandler records order and notification metrics
type OrderMetricsHandler struct {
	metrics *telemetry.OrderMetrics
}

// NewOrderMetricsHandler creates a new OrderMetricsHandler
func NewOrderMetricsHandler(metrics *telemetry.OrderMetrics) *OrderMetricsHandler {
	return &OrderMetricsHandler{metrics: metrics}
}

func (h *OrderMetricsHandler) EventTypes() []string { return orderPlacedTypes }

func (h *OrderMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*storefront.OrderPlacedEvent)
	if !ok {
		return nil
	}
	h.metrics.RecordOrderSubmitted(ctx, e.Order.Address.State, string(e.Order.Model),
		e.Totals.GrandTotal.Amount().InexactFloat64())
	for _, o := range e.Report.Outcomes {
		h.metrics.RecordNotification(ctx, string(o.Channel), string(o.Audience), string(o.Status))
	}
	return nil
}

// OrderArchiveHandler stores placed orders through an OrderArchive
type OrderArchiveHandler struct {
	archive storefront.OrderArchive
}

// NewOrderArchiveHandler creates a new OrderArchiveHandler
func NewOrderArchiveHandler(archive storefront.OrderArchive) *OrderArchiveHandler {
	return &OrderArchiveHandler{archive: archive}
}

func (h *OrderArchiveHandler) EventTypes() []string { return orderPlacedTypes }

func (h *OrderArchiveHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*storefront.OrderPlacedEvent)
	if !ok {
		return nil
	}
	return h.archive.Archive(ctx, e)
}

package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OrderMetrics holds the storefront business instruments.
type OrderMetrics struct {
	ordersSubmitted      *Counter
	orderValue           *Histogram
	notificationOutcomes *Counter
	notificationDuration *Histogram
	addressLookups       *Counter
	duplicateSubmissions *Counter
}

// NewOrderMetrics creates the instruments on meter.
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	if meter == nil {
		return nil, errors.New("NewOrderMetrics: meter cannot be nil")
	}

	var (
		m   OrderMetrics
		err error
	)
	if m.ordersSubmitted, err = NewCounter(meter, "printfoods_orders_submitted_total",
		"Orders accepted by the relay", "{order}"); err != nil {
		return nil, err
	}
	if m.orderValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "printfoods_order_value",
		Description: "Grand total of submitted orders",
		Unit:        "BRL",
		Boundaries:  []float64{100, 150, 250, 500, 1000, 1500},
	}); err != nil {
		return nil, err
	}
	if m.notificationOutcomes, err = NewCounter(meter, "printfoods_notifications_total",
		"Notification attempts by channel, audience and status", "{notification}"); err != nil {
		return nil, err
	}
	if m.notificationDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "printfoods_notification_dispatch_duration",
		Description: "Time spent notifying admin and customer for one order",
		Unit:        "s",
	}); err != nil {
		return nil, err
	}
	if m.addressLookups, err = NewCounter(meter, "printfoods_address_lookups_total",
		"CEP lookups by result", "{lookup}"); err != nil {
		return nil, err
	}
	if m.duplicateSubmissions, err = NewCounter(meter, "printfoods_duplicate_submissions_total",
		"Submissions rejected by the idempotency check", "{order}"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordOrderSubmitted counts an order and its value.
func (m *OrderMetrics) RecordOrderSubmitted(ctx context.Context, state, model string, grandTotal float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("delivery_state", state),
		attribute.String("model", model),
	}
	m.ordersSubmitted.Inc(ctx, attrs...)
	m.orderValue.Record(ctx, grandTotal, attrs...)
}

// RecordNotification counts one notification attempt.
func (m *OrderMetrics) RecordNotification(ctx context.Context, channel, audience, status string) {
	if m == nil {
		return
	}
	m.notificationOutcomes.Inc(ctx,
		attribute.String("channel", channel),
		attribute.String("audience", audience),
		attribute.String("status", status),
	)
}

// RecordDispatchDuration records how long the whole fan-out took.
func (m *OrderMetrics) RecordDispatchDuration(ctx context.Context, d time.Duration, adminNotified bool) {
	if m == nil {
		return
	}
	m.notificationDuration.RecordDuration(ctx, d, attribute.Bool("admin_notified", adminNotified))
}

// RecordAddressLookup counts a CEP lookup by result (cache_hit, found,
// not_found, invalid, error).
func (m *OrderMetrics) RecordAddressLookup(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.addressLookups.Inc(ctx, attribute.String("result", result))
}

// RecordDuplicateSubmission counts a replayed idempotency key.
func (m *OrderMetrics) RecordDuplicateSubmission(ctx context.Context) {
	if m == nil {
		return
	}
	m.duplicateSubmissions.Inc(ctx)
}

// Package order runs the storefront order flow: quoting, flavor allocation,
// address lookup and submission.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/notification"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// SnapshotLoader returns the current settings and product. It never fails.
type SnapshotLoader interface {
	Load(ctx context.Context) *storefront.Snapshot
}

// Notifier sends the order notifications
type Notifier interface {
	Dispatch(ctx context.Context, settings storefront.AdminSettings, msg notification.OrderMessage) storefront.DispatchReport
}

// Config tunes the service
type Config struct {
	Policy         storefront.Policy
	IdempotencyTTL time.Duration
	// DispatchTimeout bounds the whole notification fan-out
	DispatchTimeout time.Duration
}

// Service handles storefront orders
type Service struct {
	settings    SnapshotLoader
	lookup      storefront.AddressLookup
	notifier    Notifier
	idempotency shared.IdempotencyStore
	events      shared.EventPublisher
	metrics     *telemetry.OrderMetrics
	config      Config
	logger      *zap.Logger
}

// NewService creates a new order service. idempotency, events and metrics
// may be nil.
func NewService(
	settings SnapshotLoader,
	lookup storefront.AddressLookup,
	notifier Notifier,
	idempotency shared.IdempotencyStore,
	events shared.EventPublisher,
	metrics *telemetry.OrderMetrics,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.Policy == "" {
		cfg.Policy = storefront.PolicyBestEffort
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = shared.DefaultIdempotencyTTL
	}
	return &Service{
		settings:    settings,
		lookup:      lookup,
		notifier:    notifier,
		idempotency: idempotency,
		events:      events,
		metrics:     metrics,
		config:      cfg,
		logger:      logger,
	}
}

// Quote prices a draft order. The quantity is normalized the way the order
// form does it and an unknown state is priced as no state.
func (s *Service) Quote(ctx context.Context, in QuoteInput) *QuoteResult {
	product := s.settings.Load(ctx).Product
	quantity := storefront.NormalizeQuantity(in.Quantity)
	state := storefront.NormalizeState(in.State)
	if !storefront.IsValidState(state) {
		state = ""
	}
	return &QuoteResult{
		Quantity:  quantity,
		Packages:  storefront.Packages(quantity),
		UnitPrice: product.Price,
		ListPrice: storefront.ListPrice,
		State:     state,
		Totals:    storefront.ComputeTotals(quantity, product.Price, state),
	}
}

// Allocate applies form edits to a draft allocation
func (s *Service) Allocate(in AllocateInput) (*AllocationResult, error) {
	alloc, err := storefront.RestoreAllocation(in.Quantity, in.Rows)
	if err != nil {
		return nil, err
	}

	for i, edit := range in.Edits {
		switch edit.Kind {
		case EditSetQuantity:
			err = alloc.SetRowQuantity(edit.Row, edit.Quantity)
		case EditSetName:
			err = alloc.SetRowName(edit.Row, edit.Name)
		case EditReset:
			err = alloc.Reset(edit.Quantity)
		default:
			err = shared.NewDomainError("INVALID_ALLOCATION_EDIT", fmt.Sprintf("unknown edit %q", edit.Kind))
		}
		if err != nil {
			return nil, fmt.Errorf("edit %d: %w", i+1, err)
		}
	}

	rows := alloc.Rows()
	result := &AllocationResult{
		Quantity:  alloc.Total(),
		Rows:      make([]AllocationRow, len(rows)),
		Remaining: alloc.Remaining(),
		Balanced:  alloc.Balanced(),
	}
	for i, r := range rows {
		choices, _ := alloc.Choices(i)
		result.Rows[i] = AllocationRow{FlavorAllocation: r, Choices: choices}
	}
	return result, nil
}

// LookupAddress resolves a CEP
func (s *Service) LookupAddress(ctx context.Context, cep string) (*storefront.AddressLookupResult, error) {
	return s.lookup.Lookup(ctx, cep)
}

// Submit validates and places an order, then notifies the store and the
// customer. A repeated idempotency key returns shared.ErrDuplicateSubmission
// without sending anything. An order the notification policy rejects gives
// its key back so the customer can retry.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	flow := storefront.NewFlow()
	if err := flow.Transition(storefront.StateSubmitting); err != nil {
		return nil, err
	}

	order, err := storefront.NewOrder(in.Order)
	if err != nil {
		return nil, s.fail(flow, err)
	}

	if err := s.claim(ctx, in.IdempotencyKey); err != nil {
		return nil, s.fail(flow, err)
	}

	snap := s.settings.Load(ctx)
	msg := notification.NewOrderMessage(order, snap.Product)

	dispatchCtx := ctx
	if s.config.DispatchTimeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, s.config.DispatchTimeout)
		defer cancel()
	}
	report := s.notifier.Dispatch(dispatchCtx, snap.Settings, msg)

	if err := s.config.Policy.Evaluate(report); err != nil {
		s.release(ctx, in.IdempotencyKey)
		return nil, s.fail(flow, err,
			zap.String("order_id", order.ID.String()),
			zap.String("policy", string(s.config.Policy)))
	}
	if err := flow.Transition(storefront.StateSubmitted); err != nil {
		return nil, err
	}

	s.publish(ctx, storefront.NewOrderPlacedEvent(order, snap.Product, msg.Totals, report))

	return &SubmitResult{
		OrderID:       order.ID.String(),
		State:         flow.State(),
		Product:       snap.Product,
		Totals:        msg.Totals,
		Notifications: report,
		SuccessPage: SuccessPage{
			CustomerName:        order.Customer.Name,
			GrandTotal:          msg.Totals.GrandTotal.StringFixed(2),
			PixKey:              snap.Settings.PixDisplay(),
			PixQR:               snap.Settings.PixQR,
			CNPJ:                snap.Settings.CNPJ,
			AdminWhatsApp:       snap.Settings.AdminWhatsApp,
			OrientationVideoURL: snap.Settings.OrientationVideoURL,
		},
	}, nil
}

// fail moves the submission to its error state and logs where it stopped
func (s *Service) fail(flow *storefront.Flow, err error, fields ...zap.Field) error {
	if tErr := flow.Transition(storefront.StateSubmissionError); tErr != nil {
		return errors.Join(err, tErr)
	}
	s.logger.Warn("Order submission failed",
		append(fields, zap.String("state", string(flow.State())), zap.Error(err))...)
	return err
}

// claim reserves the idempotency key. An unavailable store lets the order
// through.
func (s *Service) claim(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil {
		return nil
	}
	claimed, err := s.idempotency.MarkProcessed(ctx, idempotencyKey(key), s.config.IdempotencyTTL)
	if err != nil {
		s.logger.Warn("Idempotency store unavailable, accepting submission", zap.Error(err))
		return nil
	}
	if !claimed {
		s.metrics.RecordDuplicateSubmission(ctx)
		s.logger.Info("Duplicate submission rejected", zap.String("idempotency_key", key))
		return shared.ErrDuplicateSubmission
	}
	return nil
}

// release gives back a key claimed by a submission that placed no order
func (s *Service) release(ctx context.Context, key string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.Release(context.WithoutCancel(ctx), idempotencyKey(key)); err != nil {
		s.logger.Warn("Failed to release idempotency key",
			zap.String("idempotency_key", key), zap.Error(err))
	}
}

func idempotencyKey(key string) string {
	return "order:" + key
}

func (s *Service) publish(ctx context.Context, event *storefront.OrderPlacedEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish order placed event",
			zap.String("order_id", event.Order.ID.String()),
			zap.Error(err))
	}
}

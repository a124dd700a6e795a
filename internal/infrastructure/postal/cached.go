package postal

import (
	"context"
	"errors"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/cache"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Lookup results recorded in metrics
const (
	resultHit      = "cache_hit"
	resultFound    = "found"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultError    = "error"
)

// CachedLookup decorates an AddressLookup with a result cache. Only
// successful lookups are cached. Cache failures degrade to a direct lookup.
type CachedLookup struct {
	next    storefront.AddressLookup
	cache   cache.AddressCache
	ttl     time.Duration
	metrics *telemetry.OrderMetrics
	logger  *zap.Logger
}

// NewCachedLookup creates a new CachedLookup. metrics may be nil.
func NewCachedLookup(next storefront.AddressLookup, c cache.AddressCache, ttl time.Duration, metrics *telemetry.OrderMetrics, logger *zap.Logger) *CachedLookup {
	return &CachedLookup{
		next:    next,
		cache:   c,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

func (l *CachedLookup) Lookup(ctx context.Context, cep string) (*storefront.AddressLookupResult, error) {
	digits, err := storefront.NormalizeCEP(cep)
	if err != nil {
		l.metrics.RecordAddressLookup(ctx, resultInvalid)
		return nil, err
	}

	if hit, err := l.cache.Get(ctx, digits); err != nil {
		l.logger.Warn("CEP cache read failed", zap.String("cep", digits), zap.Error(err))
	} else if hit != nil {
		l.metrics.RecordAddressLookup(ctx, resultHit)
		return hit, nil
	}

	result, err := l.next.Lookup(ctx, digits)
	if err != nil {
		if errors.Is(err, storefront.ErrCEPNotFound) {
			l.metrics.RecordAddressLookup(ctx, resultNotFound)
		} else {
			l.metrics.RecordAddressLookup(ctx, resultError)
		}
		return nil, err
	}
	l.metrics.RecordAddressLookup(ctx, resultFound)

	if err := l.cache.Set(ctx, digits, result, l.ttl); err != nil {
		l.logger.Warn("CEP cache write failed", zap.String("cep", digits), zap.Error(err))
	}
	return result, nil
}

var _ storefront.AddressLookup = (*CachedLookup)(nil)

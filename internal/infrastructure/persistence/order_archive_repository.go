package persistence

import (
	"context"
	"fmt"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderArchive appends placed orders to the orders table
type GormOrderArchive struct {
	db *gorm.DB
}

// NewGormOrderArchive creates a new GormOrderArchive
func NewGormOrderArchive(db *gorm.DB) *GormOrderArchive {
	return &GormOrderArchive{db: db}
}

// Archive inserts the order. Re-delivered events for the same order id are
// ignored.
func (r *GormOrderArchive) Archive(ctx context.Context, event *storefront.OrderPlacedEvent) error {
	model, err := models.OrderModelFromEvent(event)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", event.Order.ID, err)
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error; err != nil {
		return fmt.Errorf("archive order %s: %w", event.Order.ID, err)
	}
	return nil
}

// Count returns how many orders were archived
func (r *GormOrderArchive) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Count(&n).Error
	return n, err
}

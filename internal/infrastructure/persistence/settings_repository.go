package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository stores the settings snapshot in the settings and
// products tables.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get loads the singleton settings row and the product row. When only one
// of them exists the other one keeps its default; when neither exists
// storefront.ErrSettingsNotFound is returned.
func (r *GormSettingsRepository) Get(ctx context.Context) (*storefront.Snapshot, error) {
	snap := storefront.DefaultSnapshot()
	found := false

	var settings models.SettingsModel
	err := r.db.WithContext(ctx).Where("id = ?", models.SettingsRowID).First(&settings).Error
	switch {
	case err == nil:
		snap.Settings = settings.ToDomain()
		found = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load settings: %w", err)
	}

	var product models.ProductModel
	err = r.db.WithContext(ctx).Where("id = ?", storefront.DefaultProductID).First(&product).Error
	switch {
	case err == nil:
		snap.Product = product.ToDomain()
		found = true
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load product: %w", err)
	}

	if !found {
		return nil, storefront.ErrSettingsNotFound
	}
	return snap, nil
}

// Save upserts both rows in one transaction. Last write wins.
func (r *GormSettingsRepository) Save(ctx context.Context, snapshot *storefront.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(models.SettingsModelFromDomain(snapshot.Settings)).Error; err != nil {
			return fmt.Errorf("save settings: %w", err)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(models.ProductModelFromDomain(snapshot.Product)).Error; err != nil {
			return fmt.Errorf("save product: %w", err)
		}
		return nil
	})
}

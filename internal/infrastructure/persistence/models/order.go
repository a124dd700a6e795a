package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// OrderModel is the archived copy of a placed order. Allocation, address and
// notification outcomes are stored as JSON text so the table works on both
// PostgreSQL and SQLite.
type OrderModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerName      string          `gorm:"type:varchar(255);not null"`
	CustomerWhatsApp  string          `gorm:"column:customer_whatsapp;type:varchar(32);not null"`
	CustomerEmail     string          `gorm:"type:varchar(255);not null"`
	DeliveryState     string          `gorm:"type:char(2);index"`
	AddressJSON       string          `gorm:"column:address;type:text;not null"`
	Model             string          `gorm:"type:varchar(32);not null"`
	Quantity          int             `gorm:"not null"`
	FlavorsJSON       string          `gorm:"column:flavors;type:text;not null"`
	UnitPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingCost      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GrandTotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AdminNotified     bool            `gorm:"not null"`
	NotificationsJSON string          `gorm:"column:notifications;type:text"`
	SubmittedAt       time.Time       `gorm:"not null;index"`
	CreatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderModelFromEvent flattens an order placed event into an archive row
func OrderModelFromEvent(e *storefront.OrderPlacedEvent) (*OrderModel, error) {
	address, err := json.Marshal(e.Order.Address)
	if err != nil {
		return nil, err
	}
	flavors, err := json.Marshal(e.Order.Flavors)
	if err != nil {
		return nil, err
	}
	notifications, err := json.Marshal(e.Report.Outcomes)
	if err != nil {
		return nil, err
	}

	return &OrderModel{
		ID:                e.Order.ID,
		CustomerName:      e.Order.Customer.Name,
		CustomerWhatsApp:  e.Order.Customer.WhatsApp,
		CustomerEmail:     e.Order.Customer.Email,
		DeliveryState:     e.Order.Address.State,
		AddressJSON:       string(address),
		Model:             string(e.Order.Model),
		Quantity:          e.Order.Quantity,
		FlavorsJSON:       string(flavors),
		UnitPrice:         e.Product.Price,
		Subtotal:          e.Totals.Subtotal.Amount(),
		ShippingCost:      e.Totals.ShippingCost.Amount(),
		GrandTotal:        e.Totals.GrandTotal.Amount(),
		AdminNotified:     e.Report.AdminSent(),
		NotificationsJSON: string(notifications),
		SubmittedAt:       e.Order.SubmittedAt,
		CreatedAt:         time.Now(),
	}, nil
}

// Flavors decodes the stored allocation rows
func (m *OrderModel) Flavors() ([]storefront.FlavorAllocation, error) {
	var rows []storefront.FlavorAllocation
	if err := json.Unmarshal([]byte(m.FlavorsJSON), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

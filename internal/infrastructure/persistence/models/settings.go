package models

import (
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// SettingsRowID is the primary key of the singleton settings row
const SettingsRowID = 1

// SettingsModel is the persistence model for storefront.AdminSettings.
// There is exactly one row, id 1.
type SettingsModel struct {
	ID                      int       `gorm:"primaryKey;autoIncrement:false"`
	AdminEmail              string    `gorm:"type:varchar(255)"`
	AdminWhatsApp           string    `gorm:"column:admin_whatsapp;type:varchar(32)"`
	AdminWhatsApp2          string    `gorm:"column:admin_whatsapp2;type:varchar(32)"`
	OrientationVideoURL     string    `gorm:"column:orientation_video_url;type:text"`
	CallMeBotAPIKey         string    `gorm:"column:callmebot_api_key;type:varchar(128)"`
	EmailJSServiceID        string    `gorm:"column:emailjs_service_id;type:varchar(128)"`
	EmailJSTemplateIDAdmin  string    `gorm:"column:emailjs_template_id_admin;type:varchar(128)"`
	EmailJSTemplateIDUser   string    `gorm:"column:emailjs_template_id_user;type:varchar(128)"`
	EmailJSPublicKey        string    `gorm:"column:emailjs_public_key;type:varchar(128)"`
	JSONBinAPIKey           string    `gorm:"column:jsonbin_api_key;type:varchar(255)"`
	JSONBinBinID            string    `gorm:"column:jsonbin_bin_id;type:varchar(64)"`
	PixKey                  string    `gorm:"type:varchar(255)"`
	CNPJ                    string    `gorm:"column:cnpj;type:varchar(32)"`
	Logo                    string    `gorm:"type:text"`
	PixQR                   string    `gorm:"column:pix_qr;type:text"`
	ModelImageRect22x10     string    `gorm:"column:model_image_rect22x10;type:text"`
	ModelImageRect30x14     string    `gorm:"column:model_image_rect30x14;type:text"`
	ModelImageQuadrada20x20 string    `gorm:"column:model_image_quadrada20x20;type:text"`
	ModelImageOval17x25     string    `gorm:"column:model_image_oval17x25;type:text"`
	UpdatedAt               time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SettingsModel) TableName() string {
	return "settings"
}

// ToDomain converts the row to domain settings
func (m *SettingsModel) ToDomain() storefront.AdminSettings {
	return storefront.AdminSettings{
		AdminEmail:              m.AdminEmail,
		AdminWhatsApp:           m.AdminWhatsApp,
		AdminWhatsApp2:          m.AdminWhatsApp2,
		OrientationVideoURL:     m.OrientationVideoURL,
		CallMeBotAPIKey:         m.CallMeBotAPIKey,
		EmailJSServiceID:        m.EmailJSServiceID,
		EmailJSTemplateIDAdmin:  m.EmailJSTemplateIDAdmin,
		EmailJSTemplateIDUser:   m.EmailJSTemplateIDUser,
		EmailJSPublicKey:        m.EmailJSPublicKey,
		JSONBinAPIKey:           m.JSONBinAPIKey,
		JSONBinBinID:            m.JSONBinBinID,
		PixKey:                  m.PixKey,
		CNPJ:                    m.CNPJ,
		Logo:                    m.Logo,
		PixQR:                   m.PixQR,
		ModelImageRect22x10:     m.ModelImageRect22x10,
		ModelImageRect30x14:     m.ModelImageRect30x14,
		ModelImageQuadrada20x20: m.ModelImageQuadrada20x20,
		ModelImageOval17x25:     m.ModelImageOval17x25,
	}
}

// SettingsModelFromDomain builds the singleton row from domain settings
func SettingsModelFromDomain(s storefront.AdminSettings) *SettingsModel {
	return &SettingsModel{
		ID:                      SettingsRowID,
		AdminEmail:              s.AdminEmail,
		AdminWhatsApp:           s.AdminWhatsApp,
		AdminWhatsApp2:          s.AdminWhatsApp2,
		OrientationVideoURL:     s.OrientationVideoURL,
		CallMeBotAPIKey:         s.CallMeBotAPIKey,
		EmailJSServiceID:        s.EmailJSServiceID,
		EmailJSTemplateIDAdmin:  s.EmailJSTemplateIDAdmin,
		EmailJSTemplateIDUser:   s.EmailJSTemplateIDUser,
		EmailJSPublicKey:        s.EmailJSPublicKey,
		JSONBinAPIKey:           s.JSONBinAPIKey,
		JSONBinBinID:            s.JSONBinBinID,
		PixKey:                  s.PixKey,
		CNPJ:                    s.CNPJ,
		Logo:                    s.Logo,
		PixQR:                   s.PixQR,
		ModelImageRect22x10:     s.ModelImageRect22x10,
		ModelImageRect30x14:     s.ModelImageRect30x14,
		ModelImageQuadrada20x20: s.ModelImageQuadrada20x20,
		ModelImageOval17x25:     s.ModelImageOval17x25,
		UpdatedAt:               time.Now(),
	}
}

// ProductModel is the persistence model for storefront.ProductDetails
type ProductModel struct {
	ID          string          `gorm:"type:varchar(64);primaryKey"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the row to domain product details
func (m *ProductModel) ToDomain() storefront.ProductDetails {
	return storefront.ProductDetails{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
	}
}

// ProductModelFromDomain builds a product row. An empty id maps to the
// default product id.
func ProductModelFromDomain(p storefront.ProductDetails) *ProductModel {
	id := p.ID
	if id == "" {
		id = storefront.DefaultProductID
	}
	return &ProductModel{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		UpdatedAt:   time.Now(),
	}
}

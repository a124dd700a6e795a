package handler

import (
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/shopspring/decimal"
)

// UpdateProductRequest edits the product on sale. Price is per package.
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Price       string `json:"price" binding:"required" example:"25.21"`
}

// ToProduct parses the request into product details
func (r UpdateProductRequest) ToProduct() (storefront.ProductDetails, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return storefront.ProductDetails{}, shared.NewDomainError("INVALID_PRODUCT", "Preço inválido")
	}
	return storefront.ProductDetails{
		ID:          storefront.DefaultProductID,
		Name:        r.Name,
		Description: r.Description,
		Price:       price.Round(2),
	}, nil
}

// AssetUploadResponse reports where an uploaded image was stored
type AssetUploadResponse struct {
	Slot     string `json:"slot" example:"logo"`
	Location string `json:"location"`
}

// SyncResponse confirms a JSONBin sync
type SyncResponse struct {
	Message string `json:"message" example:"Configurações sincronizadas"`
}

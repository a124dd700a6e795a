package handler

import (
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/order"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
)

// =====================
// Storefront Request DTOs
// =====================

// QuoteRequest is a draft order to price
type QuoteRequest struct {
	Quantity int    `json:"quantity" binding:"gte=0"`
	State    string `json:"state" binding:"omitempty,max=2"`
}

// AllocationEditRequest is one flavor form edit. Rows are zero-based.
type AllocationEditRequest struct {
	Kind     string `json:"kind" binding:"required,oneof=set_quantity set_name reset"`
	Row      int    `json:"row" binding:"gte=0"`
	Quantity int    `json:"quantity" binding:"gte=0"`
	Name     string `json:"name" binding:"max=100"`
}

// AllocationRequest is a draft allocation and the edits to apply in order
type AllocationRequest struct {
	Quantity int                           `json:"quantity" binding:"required"`
	Rows     []storefront.FlavorAllocation `json:"rows"`
	Edits    []AllocationEditRequest       `json:"edits" binding:"omitempty,dive"`
}

// CustomerRequest holds the customer fields of the order form
type CustomerRequest struct {
	Name     string `json:"nome" binding:"max=120"`
	WhatsApp string `json:"whatsapp" binding:"max=30"`
	Email    string `json:"email" binding:"max=254"`
}

// AddressRequest holds the delivery address fields of the order form
type AddressRequest struct {
	CEP      string `json:"cep" binding:"max=12"`
	Street   string `json:"logradouro" binding:"max=200"`
	Number   string `json:"numero" binding:"max=20"`
	District string `json:"bairro" binding:"max=120"`
	City     string `json:"cidade" binding:"max=120"`
	State    string `json:"estado" binding:"max=2"`
}

// FlavorRequest is one flavor row of the order form
type FlavorRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

// SubmitOrderRequest is the submitted order form
type SubmitOrderRequest struct {
	Customer CustomerRequest `json:"customer"`
	Address  AddressRequest  `json:"address"`
	Model    string          `json:"model" binding:"required"`
	Quantity int             `json:"quantity" binding:"required"`
	Flavors  []FlavorRequest `json:"flavorDetails" binding:"required,min=1,dive"`
}

// ToInput converts the request into the domain order input
func (r SubmitOrderRequest) ToInput() storefront.NewOrderInput {
	flavors := make([]storefront.FlavorAllocation, len(r.Flavors))
	for i, f := range r.Flavors {
		flavors[i] = storefront.FlavorAllocation{Name: f.Name, Quantity: f.Quantity}
	}
	return storefront.NewOrderInput{
		Customer: storefront.Customer{
			Name:     r.Customer.Name,
			WhatsApp: r.Customer.WhatsApp,
			Email:    r.Customer.Email,
		},
		Address: storefront.DeliveryAddress{
			CEP:      r.Address.CEP,
			Street:   r.Address.Street,
			Number:   r.Address.Number,
			District: r.Address.District,
			City:     r.Address.City,
			State:    r.Address.State,
		},
		Model:    storefront.LabelModel(r.Model),
		Quantity: r.Quantity,
		Flavors:  flavors,
	}
}

// =====================
// Storefront Response DTOs
// =====================

// LabelModelResponse describes a selectable label model
type LabelModelResponse struct {
	ID    string `json:"id" example:"rect22x10"`
	Label string `json:"label" example:"Retangular 22x10"`
	Image string `json:"image,omitempty"`
}

// ProductResponse is the product on sale
type ProductResponse struct {
	ID          string `json:"id" example:"etiquetas_comestiveis"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price" example:"25.21"`
	ListPrice   string `json:"listPrice" example:"31.52"`
}

// StorefrontConfigResponse is everything the order form needs to render
type StorefrontConfigResponse struct {
	Product       ProductResponse           `json:"product"`
	PackageSize   int                       `json:"packageSize" example:"100"`
	MinimumUnits  int                       `json:"minimumUnits" example:"500"`
	MaximumUnits  int                       `json:"maximumUnits" example:"5000"`
	Models        []LabelModelResponse      `json:"models"`
	States        []string                  `json:"states"`
	ShippingTable map[string]string         `json:"shippingTable"`
	Settings      storefront.PublicSettings `json:"settings"`
}

// QuoteResponse prices a draft order
type QuoteResponse struct {
	Quantity  int                    `json:"quantity" example:"500"`
	Packages  int                    `json:"packages" example:"5"`
	UnitPrice string                 `json:"unitPrice" example:"25.21"`
	ListPrice string                 `json:"listPrice" example:"31.52"`
	State     string                 `json:"state,omitempty" example:"RJ"`
	Totals    storefront.OrderTotals `json:"totals"`
}

// AllocationRowResponse is a flavor row with the quantities it may take
type AllocationRowResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Choices  []int  `json:"choices"`
}

// AllocationResponse is the allocation after every edit
type AllocationResponse struct {
	Quantity  int                     `json:"quantity"`
	Rows      []AllocationRowResponse `json:"rows"`
	Remaining int                     `json:"remaining"`
	Balanced  bool                    `json:"balanced"`
}

// SuccessPageResponse is shown once the order is placed
type SuccessPageResponse struct {
	CustomerName        string `json:"customerName"`
	GrandTotal          string `json:"grandTotal" example:"151.05"`
	PixKey              string `json:"pixKey"`
	PixQR               string `json:"pixQr,omitempty"`
	CNPJ                string `json:"cnpj,omitempty"`
	AdminWhatsApp       string `json:"adminWhatsapp,omitempty"`
	OrientationVideoURL string `json:"orientationVideoUrl,omitempty"`
}

// SubmitOrderResponse describes a placed order
type SubmitOrderResponse struct {
	OrderID       string                           `json:"orderId"`
	State         string                           `json:"state" example:"submitted"`
	Product       ProductResponse                  `json:"product"`
	Totals        storefront.OrderTotals           `json:"totals"`
	Notifications []storefront.NotificationOutcome `json:"notifications"`
	SuccessPage   SuccessPageResponse              `json:"successPage"`
}

func toProductResponse(p storefront.ProductDetails) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		ListPrice:   storefront.ListPrice.StringFixed(2),
	}
}

func toQuoteResponse(q *order.QuoteResult) QuoteResponse {
	return QuoteResponse{
		Quantity:  q.Quantity,
		Packages:  q.Packages,
		UnitPrice: q.UnitPrice.StringFixed(2),
		ListPrice: q.ListPrice.StringFixed(2),
		State:     q.State,
		Totals:    q.Totals,
	}
}

func toAllocationResponse(r *order.AllocationResult) AllocationResponse {
	rows := make([]AllocationRowResponse, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = AllocationRowResponse{Name: row.Name, Quantity: row.Quantity, Choices: row.Choices}
	}
	return AllocationResponse{
		Quantity:  r.Quantity,
		Rows:      rows,
		Remaining: r.Remaining,
		Balanced:  r.Balanced,
	}
}

func toSubmitOrderResponse(r *order.SubmitResult) SubmitOrderResponse {
	outcomes := r.Notifications.Outcomes
	if outcomes == nil {
		outcomes = []storefront.NotificationOutcome{}
	}
	return SubmitOrderResponse{
		OrderID:       r.OrderID,
		State:         string(r.State),
		Product:       toProductResponse(r.Product),
		Totals:        r.Totals,
		Notifications: outcomes,
		SuccessPage: SuccessPageResponse{
			CustomerName:        r.SuccessPage.CustomerName,
			GrandTotal:          r.SuccessPage.GrandTotal,
			PixKey:              r.SuccessPage.PixKey,
			PixQR:               r.SuccessPage.PixQR,
			CNPJ:                r.SuccessPage.CNPJ,
			AdminWhatsApp:       r.SuccessPage.AdminWhatsApp,
			OrientationVideoURL: r.SuccessPage.OrientationVideoURL,
		},
	}
}

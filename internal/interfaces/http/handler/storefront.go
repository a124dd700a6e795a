package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/order"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/settings"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/dto"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/middleware"
)

// StorefrontHandler serves the public order form
type StorefrontHandler struct {
	BaseHandler
	orders   *order.Service
	settings *settings.Service
}

// NewStorefrontHandler creates a new storefront handler
func NewStorefrontHandler(orders *order.Service, settingsService *settings.Service) *StorefrontHandler {
	return &StorefrontHandler{
		orders:   orders,
		settings: settingsService,
	}
}

// GetConfig godoc
// @ID           getStorefrontConfig
// @Summary      Order form configuration
// @Description  Product, quantity rules, label models, states, shipping table and public contact data
// @Tags         storefront
// @Produce      json
// @Success      200 {object} APIResponse[StorefrontConfigResponse]
// @Router       /storefront/config [get]
func (h *StorefrontHandler) GetConfig(c *gin.Context) {
	public, product := h.settings.Public(c.Request.Context())

	models := make([]LabelModelResponse, len(storefront.LabelModels))
	for i, m := range storefront.LabelModels {
		models[i] = LabelModelResponse{
			ID:    string(m),
			Label: m.Label(),
			Image: public.ModelImages[m],
		}
	}

	table := storefront.ShippingTable()
	shipping := make(map[string]string, len(table))
	for uf, cost := range table {
		shipping[uf] = cost.StringFixed(2)
	}

	h.Success(c, StorefrontConfigResponse{
		Product:       toProductResponse(product),
		PackageSize:   storefront.PackageSize,
		MinimumUnits:  storefront.MinimumUnits,
		MaximumUnits:  storefront.MaximumUnits,
		Models:        models,
		States:        storefront.BrazilianStates,
		ShippingTable: shipping,
		Settings:      public,
	})
}

// Quote godoc
// @ID           quoteOrder
// @Summary      Price a draft order
// @Description  Normalizes the quantity and returns subtotal, shipping and grand total. Unknown states cost no shipping.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        request body QuoteRequest true "Draft order"
// @Success      200 {object} APIResponse[QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /storefront/quote [post]
func (h *StorefrontHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result := h.orders.Quote(c.Request.Context(), order.QuoteInput{
		Quantity: req.Quantity,
		State:    req.State,
	})
	h.Success(c, toQuoteResponse(result))
}

// Allocate godoc
// @ID           allocateFlavors
// @Summary      Apply flavor form edits
// @Description  Applies quantity, name and reset edits in order and returns the rows with the quantities each row may still take
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        request body AllocationRequest true "Allocation and edits"
// @Success      200 {object} APIResponse[AllocationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /storefront/allocation [post]
func (h *StorefrontHandler) Allocate(c *gin.Context) {
	var req AllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	edits := make([]order.AllocationEdit, len(req.Edits))
	for i, e := range req.Edits {
		edits[i] = order.AllocationEdit{
			Kind:     order.AllocationEditKind(e.Kind),
			Row:      e.Row,
			Quantity: e.Quantity,
			Name:     e.Name,
		}
	}

	result, err := h.orders.Allocate(order.AllocateInput{
		Quantity: req.Quantity,
		Rows:     req.Rows,
		Edits:    edits,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAllocationResponse(result))
}

// LookupAddress godoc
// @ID           lookupAddress
// @Summary      Look up a CEP
// @Description  Resolves a Brazilian postal code into street, district, city and state
// @Tags         storefront
// @Produce      json
// @Param        cep path string true "CEP, 8 digits with or without dash"
// @Success      200 {object} APIResponse[storefront.AddressLookupResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /storefront/address/{cep} [get]
func (h *StorefrontHandler) LookupAddress(c *gin.Context) {
	result, err := h.orders.LookupAddress(c.Request.Context(), c.Param("cep"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SubmitOrder godoc
// @ID           submitOrder
// @Summary      Place an order
// @Description  Validates the order form, notifies the admin and the customer and returns the payment page data.
// @Description  Send an Idempotency-Key header to make retries safe.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated key for safe retries"
// @Param        request body SubmitOrderRequest true "Order form"
// @Success      201 {object} APIResponse[SubmitOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /storefront/orders [post]
func (h *StorefrontHandler) SubmitOrder(c *gin.Context) {
	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	key := strings.TrimSpace(c.GetHeader(middleware.IdempotencyKeyHeader))
	if len(key) > 128 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Idempotency-Key muito longa")
		return
	}

	result, err := h.orders.Submit(c.Request.Context(), order.SubmitInput{
		IdempotencyKey: key,
		Order:          req.ToInput(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSubmitOrderResponse(result))
}

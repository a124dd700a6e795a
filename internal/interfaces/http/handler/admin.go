package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/notification"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/settings"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/dto"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/middleware"
)

// AssetFormField is the multipart field carrying an uploaded image
const AssetFormField = "file"

// AdminHandler serves the admin panel
type AdminHandler struct {
	BaseHandler
	settings   *settings.Service
	dispatcher *notification.Dispatcher
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(settingsService *settings.Service, dispatcher *notification.Dispatcher) *AdminHandler {
	return &AdminHandler{
		settings:   settingsService,
		dispatcher: dispatcher,
	}
}

// GetSettings godoc
// @ID           getAdminSettings
// @Summary      Read settings
// @Description  Returns the full settings snapshot, credentials included
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[storefront.Snapshot]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	h.Success(c, h.settings.Load(c.Request.Context()))
}

// SaveSettings godoc
// @ID           saveAdminSettings
// @Summary      Overwrite settings
// @Description  Replaces the stored snapshot. Missing keys take their default value.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body storefront.Snapshot true "Settings snapshot"
// @Success      200 {object} APIResponse[storefront.Snapshot]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/settings [put]
func (h *AdminHandler) SaveSettings(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.BindError(c, err)
		return
	}
	snap, err := storefront.DecodeSnapshot(body)
	if err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.settings.Save(c.Request.Context(), snap); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snap)
}

// UpdateProduct godoc
// @ID           updateAdminProduct
// @Summary      Edit the product
// @Description  Changes name, description and package price of the product on sale
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/product [put]
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	product, err := req.ToProduct()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	snap, err := h.settings.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(snap.Product))
}

// UploadAsset godoc
// @ID           uploadAdminAsset
// @Summary      Upload a branding image
// @Description  Stores the image and saves its location in the named settings slot
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        slot path string true "logo, pixQr, modelImageRect22x10, modelImageRect30x14, modelImageQuadrada20x20 or modelOval17x25"
// @Param        file formData file true "Image"
// @Success      200 {object} APIResponse[AssetUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/assets/{slot} [post]
func (h *AdminHandler) UploadAsset(c *gin.Context) {
	slot := storefront.AssetSlot(c.Param("slot"))

	header, err := c.FormFile(AssetFormField)
	if err != nil {
		h.BindError(c, err)
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BindError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BindError(c, err)
		return
	}

	snap, err := h.settings.UploadAsset(c.Request.Context(), slot, header.Header.Get("Content-Type"), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AssetUploadResponse{Slot: string(slot), Location: snap.Settings.Asset(slot)})
}

// TestWhatsApp godoc
// @ID           testAdminWhatsApp
// @Summary      Send a test WhatsApp message
// @Description  Sends the sample order message to every admin number with the saved CallMeBot key
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[notification.TestResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/test/whatsapp [post]
func (h *AdminHandler) TestWhatsApp(c *gin.Context) {
	ctx := c.Request.Context()
	report, err := h.dispatcher.TestWhatsApp(ctx, h.settings.Load(ctx).Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notification.NewTestResult(report))
}

// TestEmail godoc
// @ID           testAdminEmail
// @Summary      Send a test email
// @Description  Sends the sample order through the admin EmailJS template
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[notification.TestResult]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/test/email [post]
func (h *AdminHandler) TestEmail(c *gin.Context) {
	ctx := c.Request.Context()
	report, err := h.dispatcher.TestEmail(ctx, h.settings.Load(ctx).Settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notification.NewTestResult(report))
}

// SyncJSONBin godoc
// @ID           syncAdminJSONBin
// @Summary      Push settings to JSONBin
// @Description  Writes the current snapshot to the configured bin
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[SyncResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/sync/jsonbin [post]
func (h *AdminHandler) SyncJSONBin(c *gin.Context) {
	if err := h.settings.SyncJSONBin(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SyncResponse{Message: "Configurações sincronizadas"})
}

// WhoAmI godoc
// @ID           getAdminSession
// @Summary      Current admin session
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[map[string]string]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/session [get]
func (h *AdminHandler) WhoAmI(c *gin.Context) {
	username := middleware.GetJWTUsername(c)
	if username == "" {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	h.Success(c, gin.H{"username": username})
}

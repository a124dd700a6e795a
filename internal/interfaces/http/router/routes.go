package router

import (
	"github.com/gin-gonic/gin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/handler"
)

// StorefrontGroup builds the public order form routes. submit runs before
// the order submission handler only.
func StorefrontGroup(h *handler.StorefrontHandler, submit ...gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("storefront", "/storefront")
	g.GET("/config", h.GetConfig)
	g.POST("/quote", h.Quote)
	g.POST("/allocation", h.Allocate)
	g.GET("/address/:cep", h.LookupAddress)
	chain := append(append([]gin.HandlerFunc{}, submit...), h.SubmitOrder)
	g.POST("/orders", chain...)
	return g
}

// AdminGroup builds the admin panel routes. login guards the login route
// and the auth chain every other route.
func AdminGroup(authHandler *handler.AuthHandler, adminHandler *handler.AdminHandler, login gin.HandlerFunc, auth ...gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("admin", "/admin")
	g.POST("/login", login, authHandler.Login)

	protected := g.Group("admin-protected", "").Use(auth...)
	protected.POST("/logout", authHandler.Logout)
	protected.GET("/session", adminHandler.WhoAmI)
	protected.GET("/settings", adminHandler.GetSettings)
	protected.PUT("/settings", adminHandler.SaveSettings)
	protected.PUT("/product", adminHandler.UpdateProduct)
	protected.POST("/assets/:slot", adminHandler.UploadAsset)
	protected.POST("/test/whatsapp", adminHandler.TestWhatsApp)
	protected.POST("/test/email", adminHandler.TestEmail)
	protected.POST("/sync/jsonbin", adminHandler.SyncJSONBin)
	return g
}

// SystemGroup builds the system info routes
func SystemGroup(h *handler.SystemHandler) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.GetSystemInfo)
	g.GET("/ping", h.Ping)
	return g
}

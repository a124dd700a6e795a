package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/admin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/middleware"
)

// AuthHandler handles admin login and logout
type AuthHandler struct {
	BaseHandler
	authService *admin.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *admin.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login godoc
// @ID           adminLogin
// @Summary      Admin login
// @Description  Checks the configured admin credentials and returns a short lived access token
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Admin credentials"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), admin.LoginInput{
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: session.Token,
		ExpiresAt:   session.ExpiresAt,
		TokenType:   session.TokenType,
		State:       string(session.State),
	})
}

// Logout godoc
// @ID           adminLogout
// @Summary      Admin logout
// @Description  Revokes the presented access token until it would have expired
// @Tags         admin-auth
// @Produce      json
// @Success      200 {object} APIResponse[LogoutResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	state, err := h.authService.Logout(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LogoutResponse{Message: "Sessão encerrada", State: string(state)})
}

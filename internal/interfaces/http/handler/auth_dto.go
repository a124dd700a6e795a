package handler

import "time"

// LoginRequest is the admin login form
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=128"`
}

// LoginResponse carries the admin access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type" example:"Bearer"`
	State       string    `json:"state" example:"admin_view"`
}

// LogoutResponse confirms the session was closed
type LogoutResponse struct {
	Message string `json:"message" example:"Sessão encerrada"`
	State   string `json:"state" example:"order_entry"`
}

// Package admin authenticates the store operator for the admin panel.
package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/auth"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is the single answer to any failed login
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Usuário ou senha inválidos.")

// LoginInput carries the admin login form
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// Session is an open admin session: its token and where the flow stands
type Session struct {
	*auth.AccessToken
	State storefront.FlowState
}

// AuthService checks the configured admin credentials and issues tokens
type AuthService struct {
	username     string
	password     string
	passwordHash []byte
	jwtService   *auth.JWTService
	revocations  auth.RevocationList
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService. A bcrypt hash in cfg takes
// precedence over the plain password.
func NewAuthService(cfg config.AdminConfig, jwtService *auth.JWTService, revocations auth.RevocationList, logger *zap.Logger) *AuthService {
	s := &AuthService{
		username:    cfg.Username,
		password:    cfg.Password,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
	}
	if cfg.PasswordHash != "" {
		s.passwordHash = []byte(cfg.PasswordHash)
		s.password = ""
	}
	return s
}

// Login verifies the credentials, enters the admin view and returns an
// access token for it
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	flow := storefront.NewFlow()
	if err := flow.EnterAdmin(s.verify(username, in.Password)); err != nil {
		s.logger.Warn("Invalid admin login attempt", zap.String("username", username), zap.String("ip", in.IP))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(username)
	if err != nil {
		s.logger.Error("Failed to issue admin token", zap.Error(err))
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.logger.Info("Admin logged in", zap.String("username", username), zap.String("ip", in.IP))
	return &Session{AccessToken: token, State: flow.State()}, nil
}

// Logout revokes the token until it would have expired and leaves the
// admin view. It returns the state the session ends in.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) (storefront.FlowState, error) {
	if claims == nil || claims.ID == "" {
		return "", auth.ErrInvalidClaims
	}
	flow := storefront.ResumeAdminFlow()
	if ttl := claims.RemainingTTL(); ttl > 0 {
		if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
			return flow.State(), fmt.Errorf("revoke token: %w", err)
		}
	}
	if err := flow.Transition(storefront.StateOrderEntry); err != nil {
		return flow.State(), err
	}
	s.logger.Info("Admin logged out", zap.String("username", claims.Username))
	return flow.State(), nil
}

func (s *AuthService) verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	var passOK bool
	if s.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	}
	return userOK && passOK && password != ""
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/auth"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/config"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/logger"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "pedidos-print-foods",
	})
}

func newProtectedRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/admin/settings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"username":  GetJWTUsername(c),
			"ctxAdmin":  logger.GetAdminUser(c.Request.Context()),
			"hasClaims": GetJWTClaims(c) != nil,
		})
	})
	router.POST("/api/v1/admin/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doAuthRequest(router *gin.Engine, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	token, err := svc.Issue("admin")
	require.NoError(t, err)

	w := doAuthRequest(newProtectedRouter(DefaultJWTConfig(svc)), http.MethodGet, "/api/v1/admin/settings", BearerPrefix+token.Token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"admin","ctxAdmin":"admin","hasClaims":true}`, w.Body.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := newProtectedRouter(DefaultJWTConfig(svc))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeTokenInvalid},
		{"basic auth", "Basic YWRtaW46YWRtaW4=", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeTokenInvalid},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/settings", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	issuer := newTestJWTService(-time.Minute)
	token, err := issuer.Issue("admin")
	require.NoError(t, err)

	router := newProtectedRouter(DefaultJWTConfig(newTestJWTService(15 * time.Minute)))
	w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/settings", BearerPrefix+token.Token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	other := auth.NewJWTService(config.JWTConfig{
		Secret:                "another-secret-key-at-least-32-chars",
		AccessTokenExpiration: time.Minute,
		Issuer:                "pedidos-print-foods",
	})
	token, err := other.Issue("admin")
	require.NoError(t, err)

	router := newProtectedRouter(DefaultJWTConfig(newTestJWTService(time.Minute)))
	w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/settings", BearerPrefix+token.Token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	revocations := auth.NewInMemoryRevocationList()

	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = revocations
	router := newProtectedRouter(cfg)

	token, err := svc.Issue("admin")
	require.NoError(t, err)
	header := BearerPrefix + token.Token

	assert.Equal(t, http.StatusOK, doAuthRequest(router, http.MethodGet, "/api/v1/admin/settings", header).Code)

	claims, err := svc.Validate(token.Token)
	require.NoError(t, err)
	require.NoError(t, revocations.Revoke(context.Background(), claims.ID, claims.RemainingTTL()))

	w := doAuthRequest(router, http.MethodGet, "/api/v1/admin/settings", header)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuthMiddleware_RevocationCheckFailsClosed(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = failingRevocations{}

	token, err := svc.Issue("admin")
	require.NoError(t, err)

	w := doAuthRequest(newProtectedRouter(cfg), http.MethodGet, "/api/v1/admin/settings", BearerPrefix+token.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := newProtectedRouter(DefaultJWTConfig(newTestJWTService(time.Minute)))

	w := doAuthRequest(router, http.MethodPost, "/api/v1/admin/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_CustomOnError(t *testing.T) {
	var captured error
	cfg := DefaultJWTConfig(newTestJWTService(time.Minute))
	cfg.OnError = func(c *gin.Context, err error) {
		captured = err
		c.AbortWithStatus(http.StatusTeapot)
	}

	w := doAuthRequest(newProtectedRouter(cfg), http.MethodGet, "/api/v1/admin/settings", "")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.ErrorIs(t, captured, auth.ErrInvalidToken)
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUsername(c))
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/admin"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/notification"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/order"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/application/settings"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/auth"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/cache"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/config"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/notify"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/settingsstore"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/storage"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/dto"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testAdminUser     = "admin"
	testAdminPassword = "s3nha-forte"
)

type fakeWhatsApp struct {
	mu     sync.Mutex
	phones []string
	err    error
}

func (f *fakeWhatsApp) SendWhatsApp(_ context.Context, phone, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.phones = append(f.phones, phone)
	return f.err
}

type fakeEmail struct {
	mu     sync.Mutex
	emails []notify.Email
	err    error
}

func (f *fakeEmail) SendEmail(_ context.Context, email notify.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails = append(f.emails, email)
	return f.err
}

type fakeLookup map[string]*storefront.AddressLookupResult

func (f fakeLookup) Lookup(_ context.Context, cep string) (*storefront.AddressLookupResult, error) {
	if cep == "11111-111" {
		return nil, fmt.Errorf("viacep: %w", storefront.ErrCEPLookupFailed)
	}
	if len(cep) < 8 {
		return nil, storefront.ErrCEPInvalidLength
	}
	if r, ok := f[cep]; ok {
		return r, nil
	}
	return nil, storefront.ErrCEPNotFound
}

type fakeJSONBin struct {
	puts [][]byte
	err  error
}

func (f *fakeJSONBin) Put(_ context.Context, _ settingsstore.JSONBinCredentials, data []byte) error {
	f.puts = append(f.puts, data)
	return f.err
}

// testEnv is the HTTP API wired to real services over in-memory and
// temp-dir backends
type testEnv struct {
	router      *gin.Engine
	store       *settingsstore.FileStore
	settings    *settings.Service
	whatsapp    *fakeWhatsApp
	email       *fakeEmail
	jsonbin     *fakeJSONBin
	jwt         *auth.JWTService
	revocations *auth.InMemoryRevocationList
}

func seededSnapshot() *storefront.Snapshot {
	snap := storefront.DefaultSnapshot()
	snap.Settings.CallMeBotAPIKey = "cmb-key"
	snap.Settings.AdminWhatsApp2 = "5521988887777"
	snap.Settings.EmailJSServiceID = "service_pf"
	snap.Settings.EmailJSTemplateIDAdmin = "template_admin"
	snap.Settings.EmailJSTemplateIDUser = "template_user"
	snap.Settings.EmailJSPublicKey = "public-key"
	snap.Settings.PixKey = "pix@printfoods.com.br"
	return snap
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:       settingsstore.NewFileStore(filepath.Join(t.TempDir(), "settings.json")),
		whatsapp:    &fakeWhatsApp{},
		email:       &fakeEmail{},
		jsonbin:     &fakeJSONBin{},
		revocations: auth.NewInMemoryRevocationList(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: time.Hour,
			Issuer:                "pedidos-print-foods",
		}),
	}
	require.NoError(t, env.store.Save(context.Background(), seededSnapshot()))

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	env.settings = settings.NewService(env.store, storage.NewInlineAssetStorage(), env.jsonbin, settings.Config{
		MaxAssetSize: 1024,
	}, zap.NewNop())
	dispatcher := notification.NewDispatcher(env.whatsapp, env.email, nil, zap.NewNop())
	orders := order.NewService(env.settings, fakeLookup{
		"01001-000": {CEP: "01001-000", Street: "Praça da Sé", District: "Sé", City: "São Paulo", State: "SP"},
	}, dispatcher, idem, nil, nil, order.Config{DispatchTimeout: time.Second}, zap.NewNop())
	authService := admin.NewAuthService(config.AdminConfig{
		Username: testAdminUser,
		Password: testAdminPassword,
	}, env.jwt, env.revocations, zap.NewNop())

	storefrontHandler := NewStorefrontHandler(orders, env.settings)
	adminHandler := NewAdminHandler(env.settings, dispatcher)
	authHandler := NewAuthHandler(authService)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")

	sf := api.Group("/storefront")
	sf.GET("/config", storefrontHandler.GetConfig)
	sf.POST("/quote", storefrontHandler.Quote)
	sf.POST("/allocation", storefrontHandler.Allocate)
	sf.GET("/address/:cep", storefrontHandler.LookupAddress)
	sf.POST("/orders", storefrontHandler.SubmitOrder)

	jwtCfg := middleware.DefaultJWTConfig(env.jwt)
	jwtCfg.Revocations = env.revocations
	adm := api.Group("/admin")
	adm.POST("/login", authHandler.Login)
	adm.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	adm.POST("/logout", authHandler.Logout)
	adm.GET("/session", adminHandler.WhoAmI)
	adm.GET("/settings", adminHandler.GetSettings)
	adm.PUT("/settings", adminHandler.SaveSettings)
	adm.PUT("/product", adminHandler.UpdateProduct)
	adm.POST("/assets/:slot", adminHandler.UploadAsset)
	adm.POST("/test/whatsapp", adminHandler.TestWhatsApp)
	adm.POST("/test/email", adminHandler.TestEmail)
	adm.POST("/sync/jsonbin", adminHandler.SyncJSONBin)

	env.router = r
	return env
}

// do sends body as JSON (or raw when it is a string) with an optional bearer token
func (e *testEnv) do(method, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/v1/admin/login", LoginRequest{Username: testAdminUser, Password: testAdminPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp APIResponse[LoginResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp APIResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	return resp.Data
}

func errorInfo(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Success(c, gin.H{"pedido": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"pedido":"ok"}}`, w.Body.String())
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.Created(c, gin.H{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "storefront code",
			err:         storefront.ErrAllocationMismatch,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    "ALLOCATION_MISMATCH",
			wantMessage: storefront.ErrAllocationMismatch.Message,
		},
		{
			name:        "wrapped domain error keeps its message",
			err:         fmt.Errorf("viacep: %w", storefront.ErrCEPLookupFailed),
			wantStatus:  http.StatusBadGateway,
			wantCode:    "CEP_LOOKUP_FAILED",
			wantMessage: storefront.ErrCEPLookupFailed.Message,
		},
		{
			name:        "shared code is normalized",
			err:         shared.ErrNotConfigured,
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeNotConfigured,
			wantMessage: shared.ErrNotConfigured.Message,
		},
		{
			name:        "duplicate submission",
			err:         shared.ErrDuplicateSubmission,
			wantStatus:  http.StatusConflict,
			wantCode:    "DUPLICATE_SUBMISSION",
			wantMessage: shared.ErrDuplicateSubmission.Message,
		},
		{
			name:        "unknown domain code",
			err:         shared.NewDomainError("SOMETHING_NEW", "algo"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "SOMETHING_NEW",
			wantMessage: "algo",
		},
		{
			name:        "plain error is hidden",
			err:         errors.New("pq: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: "Ocorreu um erro inesperado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			info := errorInfo(t, w)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.Equal(t, tt.wantMessage, info.Message)
			assert.Equal(t, "req-1", info.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}

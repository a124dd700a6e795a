package settingsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"go.uber.org/zap"
)

// ErrJSONBinNotConfigured is returned when neither config nor saved settings
// hold a bin id and master key.
var ErrJSONBinNotConfigured = shared.NewDomainError("JSONBIN_NOT_CONFIGURED", "JSONBin API key and bin id are not configured")

// JSONBinCredentials identify a bin
type JSONBinCredentials struct {
	BinID  string
	APIKey string
}

// Complete reports whether both fields are set
func (c JSONBinCredentials) Complete() bool {
	return strings.TrimSpace(c.BinID) != "" && strings.TrimSpace(c.APIKey) != ""
}

// Or fills empty fields from fallback
func (c JSONBinCredentials) Or(fallback JSONBinCredentials) JSONBinCredentials {
	if strings.TrimSpace(c.BinID) == "" {
		c.BinID = fallback.BinID
	}
	if strings.TrimSpace(c.APIKey) == "" {
		c.APIKey = fallback.APIKey
	}
	return c
}

// CredentialsFrom reads the JSONBin fields of saved settings
func CredentialsFrom(s storefront.AdminSettings) JSONBinCredentials {
	return JSONBinCredentials{BinID: s.JSONBinBinID, APIKey: s.JSONBinAPIKey}
}

// JSONBinClient reads and writes a bin through the JSONBin v3 API
type JSONBinClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewJSONBinClient creates a new JSONBinClient
func NewJSONBinClient(baseURL string, timeout time.Duration) *JSONBinClient {
	return &JSONBinClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the latest bin content
func (c *JSONBinClient) Fetch(ctx context.Context, creds JSONBinCredentials) ([]byte, error) {
	if !creds.Complete() {
		return nil, ErrJSONBinNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.binURL(creds)+"/latest", nil)
	if err != nil {
		return nil, fmt.Errorf("build jsonbin request: %w", err)
	}
	req.Header.Set("X-Master-Key", creds.APIKey)
	req.Header.Set("X-Bin-Meta", "false")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	// with metadata enabled the record is wrapped
	var wrapped struct {
		Record json.RawMessage `json:"record"`
	}
	if json.Unmarshal(body, &wrapped) == nil && len(wrapped.Record) > 0 {
		return wrapped.Record, nil
	}
	return body, nil
}

// Put replaces the bin content
func (c *JSONBinClient) Put(ctx context.Context, creds JSONBinCredentials, data []byte) error {
	if !creds.Complete() {
		return ErrJSONBinNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.binURL(creds), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build jsonbin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Master-Key", creds.APIKey)

	_, err = c.do(req)
	return err
}

func (c *JSONBinClient) binURL(creds JSONBinCredentials) string {
	return c.baseURL + "/b/" + strings.TrimSpace(creds.BinID)
}

func (c *JSONBinClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsonbin %s: %w", req.Method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read jsonbin response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("jsonbin %s returned %d: %s", req.Method, resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// JSONBinStore keeps the snapshot in a remote bin with a local file cache.
// Reads fall back to the cache when the bin cannot be reached; writes land
// in the cache before the remote call.
type JSONBinStore struct {
	client *JSONBinClient
	cache  *FileStore
	creds  JSONBinCredentials
	logger *zap.Logger
}

// NewJSONBinStore creates a new JSONBinStore. Empty creds fields are taken
// from the settings stored in the cache.
func NewJSONBinStore(client *JSONBinClient, cache *FileStore, creds JSONBinCredentials, logger *zap.Logger) *JSONBinStore {
	return &JSONBinStore{
		client: client,
		cache:  cache,
		creds:  creds,
		logger: logger,
	}
}

func (s *JSONBinStore) Get(ctx context.Context) (*storefront.Snapshot, error) {
	cached, cacheErr := s.cache.Get(ctx)

	creds := s.creds
	if cached != nil {
		creds = creds.Or(CredentialsFrom(cached.Settings))
	}

	data, err := s.client.Fetch(ctx, creds)
	if err != nil {
		if !errors.Is(err, ErrJSONBinNotConfigured) {
			s.logger.Warn("JSONBin read failed, using cached settings", zap.Error(err))
		}
		if cached != nil {
			return cached, nil
		}
		if errors.Is(cacheErr, storefront.ErrSettingsNotFound) && errors.Is(err, ErrJSONBinNotConfigured) {
			return nil, storefront.ErrSettingsNotFound
		}
		return nil, err
	}

	snap, err := storefront.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(ctx, snap); err != nil {
		s.logger.Warn("failed to refresh settings cache", zap.Error(err))
	}
	return snap, nil
}

func (s *JSONBinStore) Save(ctx context.Context, snapshot *storefront.Snapshot) error {
	if err := s.cache.Save(ctx, snapshot); err != nil {
		return err
	}

	creds := s.creds.Or(CredentialsFrom(snapshot.Settings))
	if !creds.Complete() {
		s.logger.Info("JSONBin not configured, settings saved locally only")
		return nil
	}

	data, err := storefront.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Put(ctx, creds, data); err != nil {
		return fmt.Errorf("settings saved locally but JSONBin sync failed: %w", err)
	}
	return nil
}

var _ storefront.SettingsRepository = (*JSONBinStore)(nil)

// Package settings manages the admin settings snapshot: product details,
// contact data, integration credentials and branding assets.
package settings

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/settingsstore"
	"go.uber.org/zap"
)

// Asset errors
var (
	ErrAssetTooLarge   = shared.NewDomainError("ASSET_TOO_LARGE", "Imagem excede o tamanho máximo permitido.")
	ErrAssetNotAnImage = shared.NewDomainError("INVALID_ASSET_TYPE", "O arquivo enviado não é uma imagem.")
	ErrAssetEmpty      = shared.NewDomainError("INVALID_ASSET", "O arquivo enviado está vazio.")

	ErrLoadFailed = shared.NewDomainError("SETTINGS_LOAD_FAILED", "Erro ao carregar configurações. Nenhuma alteração foi salva.")
	ErrSaveFailed = shared.NewDomainError("SETTINGS_SAVE_FAILED", "Erro ao salvar configurações")
	ErrSyncFailed = shared.NewDomainError("JSONBIN_SYNC_FAILED", "Erro ao sincronizar com JSONBin")
)

// AssetStorage stores a branding image and returns the reference saved in
// the settings (a URL or a data URI)
type AssetStorage interface {
	Store(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// JSONBinWriter pushes a serialized snapshot to a bin
type JSONBinWriter interface {
	Put(ctx context.Context, creds settingsstore.JSONBinCredentials, data []byte) error
}

// Config tunes the service
type Config struct {
	LoadTimeout  time.Duration
	MaxAssetSize int64
	// JSONBin credentials from the environment; saved settings fill the gaps
	JSONBin settingsstore.JSONBinCredentials
}

// Service reads and writes the settings snapshot. Reads never fail: when the
// store cannot be read the compiled-in defaults are served.
type Service struct {
	repo    storefront.SettingsRepository
	assets  AssetStorage
	jsonbin JSONBinWriter
	config  Config
	logger  *zap.Logger
}

// NewService creates a new settings service. jsonbin may be nil, which
// disables manual sync.
func NewService(repo storefront.SettingsRepository, assets AssetStorage, jsonbin JSONBinWriter, cfg Config, logger *zap.Logger) *Service {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 5 * time.Second
	}
	return &Service{
		repo:    repo,
		assets:  assets,
		jsonbin: jsonbin,
		config:  cfg,
		logger:  logger,
	}
}

// Load returns the stored snapshot merged over the defaults
func (s *Service) Load(ctx context.Context) *storefront.Snapshot {
	ctx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	snap, err := s.repo.Get(ctx)
	switch {
	case err == nil && snap != nil:
		return snap
	case err == nil, errors.Is(err, storefront.ErrSettingsNotFound):
		s.logger.Debug("No saved settings, using defaults")
	default:
		s.logger.Warn("Failed to load settings, using defaults", zap.Error(err))
	}
	return storefront.DefaultSnapshot()
}

// loadForUpdate is Load for read-modify-write paths. Only a store that was
// never written yields the defaults; a failed read is returned so a
// defaults snapshot never overwrites stored credentials.
func (s *Service) loadForUpdate(ctx context.Context) (*storefront.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.LoadTimeout)
	defer cancel()

	snap, err := s.repo.Get(ctx)
	switch {
	case err == nil && snap != nil:
		return snap, nil
	case err == nil, errors.Is(err, storefront.ErrSettingsNotFound):
		return storefront.DefaultSnapshot(), nil
	default:
		s.logger.Error("Failed to load settings for update", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
}

// Public returns the credential-free settings and the product for storefront clients
func (s *Service) Public(ctx context.Context) (storefront.PublicSettings, storefront.ProductDetails) {
	snap := s.Load(ctx)
	return snap.Settings.Public(), snap.Product
}

// Save overwrites the stored snapshot. Last write wins.
func (s *Service) Save(ctx context.Context, snap *storefront.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if snap.Product.ID == "" {
		snap.Product.ID = storefront.DefaultProductID
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		s.logger.Error("Failed to save settings", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	s.logger.Info("Settings saved", zap.String("product_price", snap.Product.Price.StringFixed(2)))
	return nil
}

// UpdateProduct replaces the product details and keeps the rest
func (s *Service) UpdateProduct(ctx context.Context, product storefront.ProductDetails) (*storefront.Snapshot, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.loadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	product.ID = snap.Product.ID
	snap.Product = product
	if err := s.Save(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// UploadAsset stores an image and records its reference in slot
func (s *Service) UploadAsset(ctx context.Context, slot storefront.AssetSlot, contentType string, data []byte) (*storefront.Snapshot, error) {
	if err := (&storefront.AdminSettings{}).SetAsset(slot, ""); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrAssetEmpty
	}
	if s.config.MaxAssetSize > 0 && int64(len(data)) > s.config.MaxAssetSize {
		return nil, ErrAssetTooLarge
	}
	contentType = assetContentType(contentType, data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrAssetNotAnImage
	}

	snap, err := s.loadForUpdate(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("branding/%s/%s%s", slot, uuid.NewString(), extensionFor(contentType))
	ref, err := s.assets.Store(ctx, key, contentType, data)
	if err != nil {
		s.logger.Error("Failed to store asset", zap.String("slot", string(slot)), zap.Error(err))
		return nil, fmt.Errorf("store asset: %w", err)
	}

	if err := snap.Settings.SetAsset(slot, ref); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, snap); err != nil {
		return nil, err
	}
	s.logger.Info("Asset uploaded", zap.String("slot", string(slot)), zap.Int("size", len(data)))
	return snap, nil
}

// SyncJSONBin pushes the current snapshot to the configured bin
func (s *Service) SyncJSONBin(ctx context.Context) error {
	if s.jsonbin == nil {
		return settingsstore.ErrJSONBinNotConfigured
	}
	snap, err := s.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	creds := s.config.JSONBin.Or(settingsstore.CredentialsFrom(snap.Settings))
	if !creds.Complete() {
		return settingsstore.ErrJSONBinNotConfigured
	}
	data, err := storefront.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.jsonbin.Put(ctx, creds, data); err != nil {
		s.logger.Warn("JSONBin sync failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	s.logger.Info("Settings synced to JSONBin", zap.String("bin_id", creds.BinID))
	return nil
}

// assetContentType trusts a declared image type, otherwise sniffs the bytes
func assetContentType(declared string, data []byte) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mediaType, "image/") {
		return mediaType
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mediaType
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

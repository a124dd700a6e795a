package settingsstore

import (
	"fmt"
	"path/filepath"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/config"
	"github.com/oscarpiresjunior/pedidos-print-foods/internal/infrastructure/persistence"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries the shared clients a backend may need
type Deps struct {
	DB     *gorm.DB
	Redis  redis.UniversalClient
	Logger *zap.Logger
}

// New returns the repository selected by cfg.Backend
func New(cfg config.SettingsConfig, deps Deps) (storefront.SettingsRepository, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Backend {
	case config.SettingsBackendFile, "":
		return NewFileStore(cfg.Path), nil
	case config.SettingsBackendRedis:
		if deps.Redis == nil {
			return nil, fmt.Errorf("settings backend %q needs a redis client", cfg.Backend)
		}
		return NewRedisStore(deps.Redis, cfg.RedisKey), nil
	case config.SettingsBackendDatabase:
		if deps.DB == nil {
			return nil, fmt.Errorf("settings backend %q needs a database", cfg.Backend)
		}
		return persistence.NewGormSettingsRepository(deps.DB), nil
	case config.SettingsBackendJSONBin:
		cache := NewFileStore(jsonBinCachePath(cfg.Path))
		client := NewJSONBinClient(cfg.JSONBinBaseURL, cfg.JSONBinTimeout)
		creds := JSONBinCredentials{BinID: cfg.JSONBinBinID, APIKey: cfg.JSONBinAPIKey}
		return NewJSONBinStore(client, cache, creds, logger.Named("jsonbin")), nil
	default:
		return nil, fmt.Errorf("unknown settings backend %q", cfg.Backend)
	}
}

func jsonBinCachePath(path string) string {
	if path == "" {
		return filepath.Join("data", "adminSettings.cache.json")
	}
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".cache" + ext
}
